package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	clientFlags := []string{"-a", "-d", "-l"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "keeps client flags and drops config file",
			args:    []string{"-c", "fh.json", "-a", "http://api.local/api", "-l", "debug"},
			allowed: clientFlags,
			want:    []string{"-a", "http://api.local/api", "-l", "debug"},
		},
		{
			name:    "equals form kept whole",
			args:    []string{"--config=fh.json", "-d=/tmp/fh"},
			allowed: clientFlags,
			want:    []string{"-d=/tmp/fh"},
		},
		{
			name:    "config flags only",
			args:    []string{"--config=first.json", "-c", "second.json", "-a", "http://x"},
			allowed: []string{"-c", "--config"},
			want:    []string{"--config=first.json", "-c", "second.json"},
		},
		{
			name:    "dangling flag kept without value",
			args:    []string{"-a"},
			allowed: clientFlags,
			want:    []string{"-a"},
		},
		{
			name:    "next flag is not taken as a value",
			args:    []string{"-d", "-l", "warn"},
			allowed: clientFlags,
			want:    []string{"-d", "-l", "warn"},
		},
		{
			name:    "positional and unknown ignored",
			args:    []string{"list", "-x", "1", "--verbose=true"},
			allowed: clientFlags,
			want:    []string{},
		},
		{
			name:    "repeated flag preserved in order",
			args:    []string{"-l", "info", "-l", "error"},
			allowed: clientFlags,
			want:    []string{"-l", "info", "-l", "error"},
		},
		{
			name:    "nil args",
			allowed: clientFlags,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short", []string{"-c", "/etc/feedbackhub.json"}, "/etc/feedbackhub.json"},
		{"long", []string{"-config", "/etc/fh.json"}, "/etc/fh.json"},
		{"equals among client flags", []string{"-a", "http://x", "--config=/etc/eq.json", "-l", "debug"}, "/etc/eq.json"},
		{"absent", []string{"-a", "http://x", "-d", "/tmp"}, ""},
		{"last wins", []string{"-c", "one.json", "-config", "two.json"}, "two.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigFileFlag(tt.args))
		})
	}
}
