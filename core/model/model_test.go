package model

import (
	"encoding/json"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestJobLateOnComparesDays(t *testing.T) {
	j := Job{ID: "j1", EarliestStart: date(2023, 1, 2), DueDate: time.Date(2023, 1, 5, 23, 59, 0, 0, time.UTC)}
	if j.LateOn(date(2023, 1, 5)) {
		t.Fatalf("due day must be on time")
	}
	if !j.LateOn(date(2023, 1, 6)) {
		t.Fatalf("day after due must be late")
	}
	if !j.Window() {
		t.Fatalf("expected valid window")
	}
	j.EarliestStart = date(2023, 1, 6)
	if j.Window() {
		t.Fatalf("expected invalid window")
	}
}

func TestCrewAvailability(t *testing.T) {
	c := Crew{ID: "c1", NetShiftHours: 8, Unavailable: map[time.Time]bool{date(2023, 1, 3): true}}
	if c.AvailableOn(time.Date(2023, 1, 3, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("crew should be off on 3rd")
	}
	if !c.AvailableOn(date(2023, 1, 4)) {
		t.Fatalf("crew should work on 4th")
	}
}

func TestScheduleSortAndLate(t *testing.T) {
	s := Schedule{
		{JobID: "b", CrewID: "c2", Date: date(2023, 1, 3)},
		{JobID: "a", CrewID: "c1", Date: date(2023, 1, 3), Late: true},
		{JobID: "c", CrewID: "c1", Date: date(2023, 1, 2)},
	}
	s.Sort()
	got := []string{s[0].JobID, s[1].JobID, s[2].JobID}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %v want %v", got, want)
		}
	}
	if s.Late() != 1 {
		t.Fatalf("expected 1 late got %d", s.Late())
	}
	if _, ok := s.ByJob()["b"]; !ok {
		t.Fatalf("missing index entry")
	}
}

func TestStatusText(t *testing.T) {
	b, err := json.Marshal(map[string]Status{"s": StatusFeasibleNotProven})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"s":"FeasibleNotProven"}` {
		t.Fatalf("unexpected json %s", b)
	}
	var out map[string]Status
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["s"] != StatusFeasibleNotProven {
		t.Fatalf("round trip mismatch %v", out["s"])
	}
	if _, err := ParseStatus("nope"); err == nil {
		t.Fatalf("expected parse error")
	}
	if !StatusOptimal.HasSchedule() || StatusInfeasible.HasSchedule() {
		t.Fatalf("HasSchedule mismatch")
	}
}
