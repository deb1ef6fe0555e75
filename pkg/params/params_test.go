package params

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultWhenFileMissing(t *testing.T) {
	o, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if o.Exposure != 1.0 || o.Order != 8 || o.Instrument.Gain != 1.0 {
		t.Errorf("unexpected defaults: %+v", o)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obs.yaml")
	doc := `
object: M31
filter: SN3
exposure: 15.5
step: 2943.0
order: 8
stepNb: 840
instrument:
  name: SITELLE
  gain: 1.2
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	o, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if o.Object != "M31" || o.Filter != "SN3" {
		t.Errorf("object/filter = %q/%q", o.Object, o.Filter)
	}
	if o.Exposure != 15.5 || o.StepNb != 840 {
		t.Errorf("exposure/stepNb = %v/%d", o.Exposure, o.StepNb)
	}
	if o.Instrument.Name != "SITELLE" || o.Instrument.Gain != 1.2 {
		t.Errorf("instrument = %+v", o.Instrument)
	}
	// Unset fields keep their defaults.
	if o.Airmass != 1.0 {
		t.Errorf("airmass = %v, want default 1.0", o.Airmass)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "obs.yaml")

	o := Default()
	o.Object = "NGC 7635"
	o.Exposure = 30
	o.Instrument.Name = "SpIOMM"

	if err := Save(o, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if back.Object != o.Object || back.Exposure != o.Exposure || back.Instrument.Name != o.Instrument.Name {
		t.Errorf("round trip mismatch: %+v != %+v", back, o)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("object: [unterminated"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load succeeded on invalid YAML")
	}
}
