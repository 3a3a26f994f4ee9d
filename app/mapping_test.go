package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandbyBucketLabel(t *testing.T) {
	for code, label := range map[int]string{
		StandbyBucketActive:     "active",
		StandbyBucketWorkingSet: "working_set",
		StandbyBucketFrequent:   "frequent",
		StandbyBucketRare:       "rare",
		StandbyBucketRestricted: "restricted",
		StandbyBucketNever:      "never",
		0:                       "never",
		5:                       "never",
		-1:                      "never",
		99:                      "never",
	} {
		assert.Equal(t, label, StandbyBucketLabel(code), "bucket %v", code)
	}
}

func TestImportanceLabel(t *testing.T) {
	for _, c := range []struct {
		code  int
		label string
	}{
		{100, "foreground"},
		{125, "foreground_service"},
		{200, "visible"},
		{230, "perceptible"},
		{300, "service"},
		{325, "top_sleeping"},
		{350, "cant_save_state"},
		{400, "cached"},
		{1000, "gone"},
		{0, "not_running"},
		{150, "not_running"},
		{270, "not_running"},
		{101, "not_running"},
		{-5, "not_running"},
	} {
		assert.Equal(t, c.label, ImportanceLabel(c.code), "importance %v", c.code)
	}
}
