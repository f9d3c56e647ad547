package search

import (
	"reflect"
	"testing"
)

func Test_Matcher_CaseInsensitive(t *testing.T) {
	m := newMatcher("foo", false, false)
	got := m.find([]rune("Foo foo FOO"))
	if !reflect.DeepEqual(got, []int{0, 4, 8}) {
		t.Errorf("expected [0 4 8], got %v", got)
	}
}

func Test_Matcher_MatchCase(t *testing.T) {
	m := newMatcher("foo", true, false)
	got := m.find([]rune("Foo foo FOO"))
	if !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("expected [4], got %v", got)
	}
}

func Test_Matcher_WholeWord(t *testing.T) {
	m := newMatcher("cat", false, true)
	got := m.find([]rune("concatenate cat category"))
	if !reflect.DeepEqual(got, []int{12}) {
		t.Errorf("expected exactly one match at 12, got %v", got)
	}
}

func Test_Matcher_WholeWordPunctuationBoundaries(t *testing.T) {
	m := newMatcher("id", true, true)
	got := m.find([]rune("(id) user.id=id2 id"))
	if !reflect.DeepEqual(got, []int{1, 10, 17}) {
		t.Errorf("expected [1 10 17], got %v", got)
	}
}

func Test_Matcher_NonOverlapping(t *testing.T) {
	m := newMatcher("aa", true, false)
	got := m.find([]rune("aaaaa"))
	if !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("expected [0 2], got %v", got)
	}
}

func Test_Matcher_RejectedWholeWordDoesNotSkip(t *testing.T) {
	m := newMatcher("ab", true, true)
	got := m.find([]rune("aab ab"))
	if !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("expected [4], got %v", got)
	}
}

func Test_Matcher_RuneOffsets(t *testing.T) {
	m := newMatcher("wörld", false, false)
	got := m.find([]rune("héllo WÖRLD"))
	if !reflect.DeepEqual(got, []int{6}) {
		t.Errorf("expected rune offset 6, got %v", got)
	}
}
