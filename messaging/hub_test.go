package messaging

import (
	"reflect"
	"testing"
)

func Test_Hub_PublishInSubscriptionOrder(t *testing.T) {
	hub := NewHub[string]()
	var got []string

	hub.Subscribe(func(v string) { got = append(got, "first:"+v) })
	hub.Subscribe(func(v string) { got = append(got, "second:"+v) })

	hub.Publish("x")

	expected := []string{"first:x", "second:x"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func Test_Hub_Unsubscribe(t *testing.T) {
	hub := NewHub[int]()
	count := 0

	unsubscribe := hub.Subscribe(func(int) { count++ })
	hub.Publish(1)
	unsubscribe()
	unsubscribe()
	hub.Publish(2)

	if count != 1 {
		t.Errorf("expected 1 delivery, got %d", count)
	}
	if hub.SubscriberCount() != 0 {
		t.Errorf("expected no subscribers, got %d", hub.SubscriberCount())
	}
}

func Test_Hub_UnsubscribeKeepsOthers(t *testing.T) {
	hub := NewHub[int]()
	var a, b, c int

	hub.Subscribe(func(int) { a++ })
	unsubscribeB := hub.Subscribe(func(int) { b++ })
	hub.Subscribe(func(int) { c++ })

	unsubscribeB()
	hub.Publish(0)

	if a != 1 || b != 0 || c != 1 {
		t.Errorf("expected a=1 b=0 c=1, got a=%d b=%d c=%d", a, b, c)
	}
}
