package main

import (
	"bytes"
	"delivery-area-service/internal/api/dto"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `[
  {"id": "a", "name": "A", "lat": 52.51, "lng": 13.39},
  {"id": "b", "name": "B", "lat": 52.53, "lng": 13.41},
  {"id": "c", "name": "C", "lat": 52.48, "lng": 13.44},
  {"id": "d", "name": "D", "address": "Somewhere"}
]`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestRunPrintsPlan(t *testing.T) {
	in := writeFile(t, "recipients.json", sample)

	var out, errOut bytes.Buffer
	code := run([]string{"-in", in, "-origin-lat", "52.5", "-origin-lng", "13.4", "-areas", "2"}, &out, &errOut)
	if code != 0 {
		t.Fatalf("exit = %d stderr=%s", code, errOut.String())
	}

	var plan dto.PlanResponse
	if err := json.Unmarshal(out.Bytes(), &plan); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(plan.Areas) != 2 {
		t.Fatalf("areas = %d, want 2", len(plan.Areas))
	}
	if len(plan.Unplaced) != 1 || plan.Unplaced[0].ID != "d" {
		t.Fatalf("unplaced = %+v", plan.Unplaced)
	}
}

func TestRunConfigFileAndFlagOverride(t *testing.T) {
	in := writeFile(t, "recipients.json", sample)
	cfg := writeFile(t, "planner.yaml", "max_per_area: 1\n")

	var out, errOut bytes.Buffer
	if code := run([]string{"-in", in, "-config", cfg}, &out, &errOut); code != 0 {
		t.Fatalf("exit = %d stderr=%s", code, errOut.String())
	}
	var plan dto.PlanResponse
	if err := json.Unmarshal(out.Bytes(), &plan); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(plan.Areas) != 3 {
		t.Fatalf("areas = %d, want 3 from max_per_area 1", len(plan.Areas))
	}

	out.Reset()
	if code := run([]string{"-in", in, "-config", cfg, "-max-per-area", "5"}, &out, &errOut); code != 0 {
		t.Fatalf("exit = %d stderr=%s", code, errOut.String())
	}
	if err := json.Unmarshal(out.Bytes(), &plan); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(plan.Areas) != 1 {
		t.Fatalf("areas = %d, want 1 after flag override", len(plan.Areas))
	}
}

func TestRunInvalidInputExitsTwo(t *testing.T) {
	in := writeFile(t, "recipients.json", sample)

	cases := [][]string{
		{},
		{"-in", in, "-max-per-area", "0"},
		{"-in", in, "-origin-lat", "95"},
		{"-in", in, "-bogus"},
	}
	for _, args := range cases {
		var out, errOut bytes.Buffer
		if code := run(args, &out, &errOut); code != 2 {
			t.Fatalf("args %v: exit = %d, want 2 (stderr=%s)", args, code, errOut.String())
		}
	}
}

func TestRunMissingFile(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-in", filepath.Join(t.TempDir(), "missing.json")}, &out, &errOut)
	if code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "areaplan:") {
		t.Fatalf("stderr = %q", errOut.String())
	}
}
