package domain

// ReadPreference tells a replicated backend which members may serve a read.
type ReadPreference uint8

// Read preferences. ReadPreferenceUnset lets the backend use its default.
const (
	ReadPreferenceUnset ReadPreference = iota
	Primary
	PrimaryPreferred
	Secondary
	SecondaryPreferred
	Nearest
)

var readPreferenceNames = map[ReadPreference]string{
	Primary:            "primary",
	PrimaryPreferred:   "primaryPreferred",
	Secondary:          "secondary",
	SecondaryPreferred: "secondaryPreferred",
	Nearest:            "nearest",
}

// ParseReadPreference returns the read preference named s. Unknown names
// return [ErrReadPreference].
func ParseReadPreference(s string) (ReadPreference, error) {
	for rp, name := range readPreferenceNames {
		if name == s {
			return rp, nil
		}
	}
	return ReadPreferenceUnset, ErrReadPreference{Value: s}
}

// String implements [fmt.Stringer].
func (r ReadPreference) String() string {
	if name, ok := readPreferenceNames[r]; ok {
		return name
	}
	return ""
}
