package model

// Option is a selectable value paired with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Region is an Australian state or territory code.
type Region string

const (
	RegionNSW Region = "NSW"
	RegionVIC Region = "VIC"
	RegionQLD Region = "QLD"
	RegionWA  Region = "WA"
	RegionSA  Region = "SA"
	RegionTAS Region = "TAS"
	RegionACT Region = "ACT"
	RegionNT  Region = "NT"
)

var regions = []Option{
	{Value: string(RegionNSW), Label: "New South Wales"},
	{Value: string(RegionVIC), Label: "Victoria"},
	{Value: string(RegionQLD), Label: "Queensland"},
	{Value: string(RegionWA), Label: "Western Australia"},
	{Value: string(RegionSA), Label: "South Australia"},
	{Value: string(RegionTAS), Label: "Tasmania"},
	{Value: string(RegionACT), Label: "Australian Capital Territory"},
	{Value: string(RegionNT), Label: "Northern Territory"},
}

// Regions returns the selectable regions in display order.
func Regions() []Option {
	return append([]Option(nil), regions...)
}

// Valid reports whether r is one of the declared regions. The empty region
// (nothing selected) is not valid.
func (r Region) Valid() bool {
	return optionIndex(regions, string(r)) >= 0
}

// Label returns the display label, or the raw code when unknown.
func (r Region) Label() string {
	if idx := optionIndex(regions, string(r)); idx >= 0 {
		return regions[idx].Label
	}
	return string(r)
}

// ParticipantRange buckets the expected number of participants.
type ParticipantRange string

const (
	Participants1To10   ParticipantRange = "1-10"
	Participants11To25  ParticipantRange = "11-25"
	Participants26To50  ParticipantRange = "26-50"
	Participants51To100 ParticipantRange = "51-100"
	ParticipantsOver100 ParticipantRange = "100+"
)

var participantRanges = []Option{
	{Value: string(Participants1To10), Label: "1-10 participants"},
	{Value: string(Participants11To25), Label: "11-25 participants"},
	{Value: string(Participants26To50), Label: "26-50 participants"},
	{Value: string(Participants51To100), Label: "51-100 participants"},
	{Value: string(ParticipantsOver100), Label: "100+ participants"},
}

// ParticipantRanges returns the selectable buckets in display order.
func ParticipantRanges() []Option {
	return append([]Option(nil), participantRanges...)
}

// Valid reports whether p is one of the declared buckets.
func (p ParticipantRange) Valid() bool {
	return optionIndex(participantRanges, string(p)) >= 0
}

// Label returns the display label, or the raw value when unknown.
func (p ParticipantRange) Label() string {
	if idx := optionIndex(participantRanges, string(p)); idx >= 0 {
		return participantRanges[idx].Label
	}
	return string(p)
}

func optionIndex(options []Option, value string) int {
	if value == "" {
		return -1
	}
	for i, option := range options {
		if option.Value == value {
			return i
		}
	}
	return -1
}
