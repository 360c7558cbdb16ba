package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

func TestConfigValidate(t *testing.T) {
	RegisterTestingT(t)

	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "default config", mutate: func(c *Config) {}},
		{name: "console needs no file", mutate: func(c *Config) { c.Output = "console"; c.File = FileConfig{} }},
		{name: "json format", mutate: func(c *Config) { c.Format = "json" }},
		{name: "invalid level", mutate: func(c *Config) { c.Level = "verbose" }, wantErr: true},
		{name: "invalid format", mutate: func(c *Config) { c.Format = "xml" }, wantErr: true},
		{name: "invalid output", mutate: func(c *Config) { c.Output = "syslog" }, wantErr: true},
		{name: "missing filename", mutate: func(c *Config) { c.File.Filename = "" }, wantErr: true},
		{name: "zero maxsize", mutate: func(c *Config) { c.File.MaxSize = 0 }, wantErr: true},
	}
	for _, tc := range testCases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		err := cfg.Validate()
		if tc.wantErr {
			Expect(err).To(HaveOccurred(), tc.name)
		} else {
			Expect(err).To(BeNil(), tc.name)
		}
	}
}

func TestFileLineFormat(t *testing.T) {
	RegisterTestingT(t)
	cfg := DefaultConfig()
	cfg.File.Filename = filepath.Join(t.TempDir(), "logs", "snapsearch.log")

	l, err := New(cfg)
	Expect(err).To(BeNil())
	l.Info("Search results found.")
	l.Error("Error with search results: timed out", zap.String("site", "Bing"))
	l.Debug("not written at info level")
	Expect(l.Close()).To(Succeed())

	content, err := os.ReadFile(cfg.File.Filename)
	Expect(err).To(BeNil())
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	Expect(lines).To(HaveLen(2))
	Expect(lines[0]).To(MatchRegexp(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3} - INFO - Search results found\.$`))
	Expect(lines[1]).To(MatchRegexp(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3} - ERROR - Error with search results: timed out - \{"site": "Bing"\}$`))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	RegisterTestingT(t)

	_, err := New(&Config{Level: "info", Format: "text", Output: "nowhere"})
	Expect(err).To(HaveOccurred())
}

func TestNewWithNilConfigUsesDefaults(t *testing.T) {
	RegisterTestingT(t)
	t.Chdir(t.TempDir())

	l, err := New(nil)
	Expect(err).To(BeNil())
	Expect(l.Config().File.Filename).To(Equal("snapsearch.log"))
	Expect(l.Close()).To(Succeed())
}
