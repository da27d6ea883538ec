package domain

// LopContent classifies a sequence of combinators. It is memoized by
// [CriteriaGroup] and [Query] on every append, and is always equal to the
// result of [ClassifyAll] over the whole sequence.
type LopContent uint8

// Possible classifications. Transitions are monotonic: once a sequence is
// mixed it never goes back.
const (
	// LopUnset is the classification of an empty sequence.
	LopUnset LopContent = iota
	// LopAndOnly means every combinator is [And].
	LopAndOnly
	// LopOrOnly means every combinator is [Or].
	LopOrOnly
	// LopMixed means the sequence contains both [And] and [Or].
	LopMixed
)

// String implements [fmt.Stringer].
func (l LopContent) String() string {
	switch l {
	case LopAndOnly:
		return "andOnly"
	case LopOrOnly:
		return "orOnly"
	case LopMixed:
		return "mixed"
	default:
		return "unset"
	}
}

// Classify returns the classification of a sequence currently classified as
// current after appended is added to its end.
func Classify(current LopContent, appended Combinator) LopContent {
	if current == LopMixed {
		return LopMixed
	}
	switch appended {
	case And:
		if current == LopOrOnly {
			return LopMixed
		}
		return LopAndOnly
	case Or:
		if current == LopAndOnly {
			return LopMixed
		}
		return LopOrOnly
	default:
		return current
	}
}

// ClassifyAll classifies a whole sequence from scratch.
func ClassifyAll(combinators []Combinator) LopContent {
	res := LopUnset
	for _, c := range combinators {
		res = Classify(res, c)
	}
	return res
}
