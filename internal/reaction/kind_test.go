package reaction

import (
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		subject SubjectType
		kind    string
		wantErr bool
	}{
		{SubjectVideo, "like", false},
		{SubjectVideo, "dislike", false},
		{SubjectVideo, "saved", false},
		{SubjectVideo, "subscribed", true},
		{SubjectComment, "like", false},
		{SubjectComment, "dislike", true},
		{SubjectTweet, "like", false},
		{SubjectChannel, "subscribed", false},
		{SubjectChannel, "like", true},
		{SubjectType("post"), "like", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.subject)+"/"+tt.kind, func(t *testing.T) {
			_, err := ParseKind(tt.subject, tt.kind)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseKind(%s, %s) err = %v, wantErr %v", tt.subject, tt.kind, err, tt.wantErr)
			}
		})
	}
}

func TestSiblings(t *testing.T) {
	if got := Siblings(SubjectVideo, KindLike); len(got) != 1 || got[0] != KindDislike {
		t.Errorf("Siblings(video, like) = %v", got)
	}
	if got := Siblings(SubjectVideo, KindDislike); len(got) != 1 || got[0] != KindLike {
		t.Errorf("Siblings(video, dislike) = %v", got)
	}
	if got := Siblings(SubjectVideo, KindSaved); got != nil {
		t.Errorf("saved has no siblings, got %v", got)
	}
	if got := Siblings(SubjectComment, KindLike); got != nil {
		t.Errorf("comment like has no siblings, got %v", got)
	}
}

func TestGroup(t *testing.T) {
	if Group(SubjectVideo, KindLike) != Group(SubjectVideo, KindDislike) {
		t.Error("like and dislike must share a group on videos")
	}
	if Group(SubjectVideo, KindSaved) == Group(SubjectVideo, KindLike) {
		t.Error("saved must not share the like group")
	}
	if Group(SubjectChannel, KindSubscribed) != "subscribed" {
		t.Errorf("ungrouped kind should be its own group, got %q", Group(SubjectChannel, KindSubscribed))
	}
}

func TestParseSubjectType(t *testing.T) {
	for _, s := range []string{"video", "comment", "tweet", "channel"} {
		if _, err := ParseSubjectType(s); err != nil {
			t.Errorf("ParseSubjectType(%q) = %v", s, err)
		}
	}
	if _, err := ParseSubjectType("playlist"); err == nil {
		t.Error("playlist is not a reaction subject")
	}
}
