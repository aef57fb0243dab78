package session

import (
	"testing"

	"github.com/example/kidvocab/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestIsValidSessionData(t *testing.T) {
	valid := validRecord(1000)

	tests := []struct {
		name   string
		mutate func(*models.SessionData)
		want   bool
	}{
		{"valid record", func(d *models.SessionData) {}, true},
		{"missing active tab", func(d *models.SessionData) { d.ActiveTab = "" }, false},
		{"missing category", func(d *models.SessionData) { d.SelectedCategory = "" }, false},
		{"missing learning mode", func(d *models.SessionData) { d.LearningMode = "" }, false},
		{"nil remembered words", func(d *models.SessionData) { d.RememberedWords = nil }, false},
		{"nil forgotten words", func(d *models.SessionData) { d.ForgottenWords = nil }, false},
		{"zero last updated", func(d *models.SessionData) { d.LastUpdated = 0 }, false},
		{"negative last updated", func(d *models.SessionData) { d.LastUpdated = -5 }, false},
		{"no version", func(d *models.SessionData) { d.Version = "" }, true},
		{"minor version drift", func(d *models.SessionData) { d.Version = "1.42" }, true},
		{"major version mismatch", func(d *models.SessionData) { d.Version = "2.0" }, false},
		{"bare major version", func(d *models.SessionData) { d.Version = "1" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := valid.Clone()
			tt.mutate(&data)
			assert.Equal(t, tt.want, IsValidSessionData(data, SchemaVersion))
		})
	}
}

func TestMajorVersion(t *testing.T) {
	assert.Equal(t, "1", majorVersion("1.0"))
	assert.Equal(t, "1", majorVersion("1.9.3"))
	assert.Equal(t, "2", majorVersion("2"))
	assert.Equal(t, "", majorVersion(""))
}
