package idhash

import (
	"testing"
	"time"
)

func TestCandidateID(t *testing.T) {
	base := time.Date(1990, time.March, 15, 4, 32, 0, 0, time.UTC)

	tests := []struct {
		name    string
		instant time.Time
		lat     float64
		lon     float64
	}{
		{name: "mumbai", instant: base, lat: 19.076, lon: 72.8777},
		{name: "southern hemisphere", instant: base, lat: -33.8688, lon: 151.2093},
		{name: "sub-second instant", instant: base.Add(400 * time.Millisecond), lat: 19.076, lon: 72.8777},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := CandidateID(tt.instant, tt.lat, tt.lon)
			if id == "" {
				t.Fatal("CandidateID returned empty string")
			}
			raw, err := ParseCandidateID(id)
			if err != nil {
				t.Fatalf("ParseCandidateID(%q) error: %v", id, err)
			}
			if len(raw) != 32 {
				t.Errorf("digest length = %d, want 32", len(raw))
			}
		})
	}
}

func TestCandidateID_Deterministic(t *testing.T) {
	instant := time.Date(1990, time.March, 15, 4, 32, 0, 0, time.UTC)

	id1 := CandidateID(instant, 19.076, 72.8777)
	id2 := CandidateID(instant, 19.076, 72.8777)
	if id1 != id2 {
		t.Errorf("CandidateID not deterministic: %s != %s", id1, id2)
	}

	// Same instant in another zone is the same moment.
	ist := time.FixedZone("IST", 5*3600+1800)
	if id3 := CandidateID(instant.In(ist), 19.076, 72.8777); id3 != id1 {
		t.Errorf("CandidateID depends on zone: %s != %s", id3, id1)
	}
}

func TestCandidateID_DifferentInputs(t *testing.T) {
	instant := time.Date(1990, time.March, 15, 4, 32, 0, 0, time.UTC)
	base := CandidateID(instant, 19.076, 72.8777)

	variants := map[string]string{
		"instant":   CandidateID(instant.Add(time.Minute), 19.076, 72.8777),
		"latitude":  CandidateID(instant, 19.077, 72.8777),
		"longitude": CandidateID(instant, 19.076, 72.8778),
	}
	for name, id := range variants {
		if id == base {
			t.Errorf("changing %s did not change the ID", name)
		}
	}
}

func TestParseCandidateID_Invalid(t *testing.T) {
	for _, id := range []string{"0OIl", "abc"} {
		if _, err := ParseCandidateID(id); err == nil {
			t.Errorf("ParseCandidateID(%q) expected error", id)
		}
	}
}
