/*
DESCRIPTION
  config_test.go provides testing for the Config struct methods
  (Validate and Update).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type dumbLogger struct{}

func (dl *dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dl *dumbLogger) SetLevel(l int8)                         {}
func (dl *dumbLogger) Debug(msg string, args ...interface{})   {}
func (dl *dumbLogger) Info(msg string, args ...interface{})    {}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

func TestValidate(t *testing.T) {
	dl := &dumbLogger{}

	want := Config{
		Logger:               dl,
		Width:                defaultWidth,
		Height:               defaultHeight,
		FrameRateNum:         defaultFrameRateNum,
		FrameRateDen:         defaultFrameRateDen,
		PoolCapacity:         defaultPoolCapacity,
		PoolStartElementSize: defaultPoolStartElementSize,
		PoolWriteTimeout:     defaultPoolWriteTimeout,
	}

	got := Config{Logger: dl}
	if err := got.Validate(); err != nil {
		t.Fatalf("did not expect error from Validate: %v", err)
	}

	if !cmp.Equal(want, got) {
		t.Errorf("did not get expected defaulted config\nwant: %+v\ngot: %+v", want, got)
	}
}

func TestValidateKeepsExplicitValues(t *testing.T) {
	dl := &dumbLogger{}
	c := Config{Logger: dl, Width: 640, Height: 480, FrameRateNum: 60, FrameRateDen: 1}
	if err := c.Validate(); err != nil {
		t.Fatalf("did not expect error from Validate: %v", err)
	}
	if c.Width != 640 || c.Height != 480 || c.FrameRateNum != 60 {
		t.Errorf("Validate overwrote explicitly set fields: %+v", c)
	}
}

func TestUpdate(t *testing.T) {
	c := Config{Logger: &dumbLogger{}}
	c.Update(map[string]string{
		KeyWidth:                 "3840",
		KeyHeight:                "2160",
		KeyFrameRateNum:          "60",
		KeyNeverDropOutput:       "true",
		KeyDefaultBufferDuration: "250",
		KeyOutputPath:            "/tmp/out",
		KeyHTTPAddress:           "http://localhost:8080",
		KeyScenePath:             "/tmp/scene.json",
	})

	want := Config{
		Logger:                &dumbLogger{},
		Width:                 3840,
		Height:                2160,
		FrameRateNum:          60,
		NeverDropOutput:       true,
		DefaultBufferDuration: 250 * time.Millisecond,
		OutputPath:            "/tmp/out",
		HTTPAddress:           "http://localhost:8080",
		ScenePath:             "/tmp/scene.json",
	}
	if !cmp.Equal(want, c) {
		t.Errorf("did not get expected updated config\nwant: %+v\ngot: %+v", want, c)
	}
}

func TestUpdateIgnoresUnknownKeys(t *testing.T) {
	c := Config{Logger: &dumbLogger{}, Width: 1920}
	c.Update(map[string]string{"NotAField": "123"})
	if c.Width != 1920 {
		t.Errorf("Update mutated config from an unknown key: %+v", c)
	}
}
