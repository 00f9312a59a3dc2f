package env

import (
	"testing"
	"time"
)

func TestGetters(t *testing.T) {
	t.Setenv("MEALCAL_TEST_STR", "value")
	t.Setenv("MEALCAL_TEST_INT", "42")
	t.Setenv("MEALCAL_TEST_BAD_INT", "forty-two")
	t.Setenv("MEALCAL_TEST_BOOL", "true")
	t.Setenv("MEALCAL_TEST_DUR", "1500ms")

	if got := GetEnv("MEALCAL_TEST_STR", "x"); got != "value" {
		t.Errorf("GetEnv = %q, want %q", got, "value")
	}
	if got := GetEnv("MEALCAL_TEST_MISSING", "x"); got != "x" {
		t.Errorf("GetEnv default = %q, want %q", got, "x")
	}
	if got := GetInt("MEALCAL_TEST_INT", 1); got != 42 {
		t.Errorf("GetInt = %d, want 42", got)
	}
	if got := GetInt("MEALCAL_TEST_BAD_INT", 7); got != 7 {
		t.Errorf("GetInt with bad value = %d, want default 7", got)
	}
	if got := GetBool("MEALCAL_TEST_BOOL", false); !got {
		t.Error("GetBool = false, want true")
	}
	if got := GetDuration("MEALCAL_TEST_DUR", time.Second); got != 1500*time.Millisecond {
		t.Errorf("GetDuration = %v, want 1.5s", got)
	}
	if got := GetDuration("MEALCAL_TEST_MISSING", time.Second); got != time.Second {
		t.Errorf("GetDuration default = %v, want 1s", got)
	}
}
