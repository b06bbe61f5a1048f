package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDissatisfaction(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{name: "raise ticket phrase", message: "Please raise ticket for this", want: true},
		{name: "case insensitive", message: "CAN'T GET IT TO WORK at all", want: true},
		{name: "talk to agent", message: "I want to talk to agent now", want: true},
		{name: "broad word ticket", message: "where is my ticket", want: true},
		{name: "broad word problem", message: "there is a problem with my invoice", want: true},
		{name: "embedded substring", message: "the support page is down", want: true},
		{name: "plain question", message: "How do refunds work?", want: false},
		{name: "greeting", message: "Good morning!", want: false},
		{name: "empty", message: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDissatisfaction(tt.message))
		})
	}
}
