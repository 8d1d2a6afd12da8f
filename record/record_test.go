package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetPrioritySplitsFacilityAndSeverity(t *testing.T) {
	rec := New()
	rec.SetPriority(34)
	assert.Equal(t, FacilityAuth, rec.Facility)
	assert.Equal(t, SeverityCritical, rec.Severity)
	assert.True(t, rec.HasFacility)
	assert.True(t, rec.HasSeverity)
}

func TestPutStructuredValueOverwritesLater(t *testing.T) {
	rec := New()
	rec.PutStructuredValue("exampleSDID@32473", "iut", "3")
	rec.PutStructuredValue("exampleSDID@32473", "iut", "4")
	assert.Equal(t, "4", rec.StructuredData["exampleSDID@32473"]["iut"])
}

func TestFacilityAndSeverityStrings(t *testing.T) {
	assert.Equal(t, "local7", FacilityLocal7.String())
	assert.Equal(t, "emergency", SeverityEmergency.String())
	assert.Equal(t, "unknown", Facility(255).String())
}
