package reaction

import (
	"slices"

	"github.com/mathieu-neron/vixtube/internal/apperror"
)

// SubjectType is the kind of entity being reacted to.
type SubjectType string

const (
	SubjectVideo   SubjectType = "video"
	SubjectComment SubjectType = "comment"
	SubjectTweet   SubjectType = "tweet"
	SubjectChannel SubjectType = "channel"
)

// Kind is the stance an actor holds toward a subject.
type Kind string

const (
	KindLike       Kind = "like"
	KindDislike    Kind = "dislike"
	KindSubscribed Kind = "subscribed"
	KindSaved      Kind = "saved"
)

// State is the position of an actor inside the video like/dislike group.
type State string

const (
	StateNone     State = "none"
	StateLiked    State = "liked"
	StateDisliked State = "disliked"
)

type subjectRule struct {
	kinds []Kind
	// groups lists mutually exclusive kind sets. Kinds not listed form their own group.
	groups [][]Kind
}

var rules = map[SubjectType]subjectRule{
	SubjectVideo: {
		kinds:  []Kind{KindLike, KindDislike, KindSaved},
		groups: [][]Kind{{KindLike, KindDislike}},
	},
	SubjectComment: {kinds: []Kind{KindLike}},
	SubjectTweet:   {kinds: []Kind{KindLike}},
	SubjectChannel: {kinds: []Kind{KindSubscribed}},
}

// ParseSubjectType validates a subject type coming from a request path.
func ParseSubjectType(s string) (SubjectType, error) {
	t := SubjectType(s)
	if !t.Valid() {
		return "", apperror.Invalid("unknown subject type %q", s)
	}
	return t, nil
}

// ParseKind validates a kind for the given subject type.
func ParseKind(t SubjectType, s string) (Kind, error) {
	k := Kind(s)
	if !t.Supports(k) {
		return "", apperror.Invalid("kind %q is not valid for %s", s, t)
	}
	return k, nil
}

func (t SubjectType) Valid() bool {
	_, ok := rules[t]
	return ok
}

// Supports reports whether k is a valid kind for t.
func (t SubjectType) Supports(k Kind) bool {
	r, ok := rules[t]
	return ok && slices.Contains(r.kinds, k)
}

// Kinds returns the valid kinds for t.
func (t SubjectType) Kinds() []Kind {
	return slices.Clone(rules[t].kinds)
}

// Siblings returns the kinds that are cleared when k is selected on t.
func Siblings(t SubjectType, k Kind) []Kind {
	for _, g := range rules[t].groups {
		if !slices.Contains(g, k) {
			continue
		}
		out := make([]Kind, 0, len(g)-1)
		for _, other := range g {
			if other != k {
				out = append(out, other)
			}
		}
		return out
	}
	return nil
}

// Group names the exclusive group k belongs to on t. Stores use it as the
// second uniqueness key so two kinds of one group can never coexist.
func Group(t SubjectType, k Kind) string {
	for _, g := range rules[t].groups {
		if slices.Contains(g, k) {
			return string(g[0])
		}
	}
	return string(k)
}
