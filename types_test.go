package shipathon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventRecordDescriptiveText(t *testing.T) {
	e := EventRecord{
		Title:          "Robotics Workshop",
		Location:       "Engineering Building",
		Summary:        "Build robots",
		TargetAudience: "Engineering students",
	}
	assert.Equal(t, "Robotics Workshop Engineering Building Build robots Engineering students",
		e.DescriptiveText())
}

func TestEventRecordValidate(t *testing.T) {
	valid := EventRecord{
		Title:          "Robotics Workshop",
		Location:       "Engineering Building",
		Summary:        "Build robots",
		TargetAudience: "Engineering students",
	}
	assert.NoError(t, valid.Validate())

	for _, tc := range []struct {
		name   string
		mutate func(*EventRecord)
	}{
		{"missing title", func(e *EventRecord) { e.Title = "" }},
		{"missing location", func(e *EventRecord) { e.Location = "  " }},
		{"missing summary", func(e *EventRecord) { e.Summary = "" }},
		{"missing target audience", func(e *EventRecord) { e.TargetAudience = "" }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := valid
			tc.mutate(&e)
			assert.ErrorIs(t, e.Validate(), ErrMalformedRecord)
		})
	}
}

func TestUserProfileYearText(t *testing.T) {
	for year, want := range map[int]string{
		0:  "",
		1:  "1st year",
		2:  "2nd year",
		3:  "3rd year",
		4:  "4th year",
		11: "11th year",
		12: "12th year",
		21: "21st year",
	} {
		assert.Equal(t, want, UserProfile{Year: year}.YearText())
	}
}

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	assert.Zero(t, w.Name, "names carry no semantic signal")
	assert.Equal(t, float32(5), w.Interests)
	assert.Equal(t, float32(0.6), w.Baseline)
	assert.Equal(t, RankLinear, w.InterestRanking)
}
