package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	RegisterTestingT(t)

	cfg, err := Load("", nil)
	Expect(err).To(BeNil())
	Expect(cfg.Browser.Driver).To(Equal(DriverChrome))
	Expect(cfg.Browser.Headless).To(BeFalse())
	Expect(cfg.Browser.Width).To(Equal(1920))
	Expect(cfg.Search.WaitTimeout).To(Equal(10 * time.Second))
	Expect(cfg.Search.ScreenshotDir).To(BeEmpty())
	Expect(cfg.Baas.Url).To(Equal("https://baas.integrail.ai"))
	Expect(cfg.Baas.UseProxy).To(BeTrue())
	Expect(cfg.Log.Level).To(Equal("info"))
	Expect(cfg.Log.File.Filename).To(Equal("snapsearch.log"))
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	RegisterTestingT(t)
	path := filepath.Join(t.TempDir(), "snapsearch.yaml")
	Expect(os.WriteFile(path, []byte(`
browser:
  driver: baas
  headless: true
  flags: ["lang=en-US"]
search:
  waitTimeout: 5s
  screenshotDir: /tmp/shots
baas:
  url: http://localhost:8080
  messageTimeout: 45s
log:
  level: debug
`), 0o644)).To(Succeed())
	t.Setenv("SNAPSEARCH_SEARCH_SCREENSHOTDIR", "/var/shots")
	t.Setenv("BAAS_API_KEY", "from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	flags.Duration("wait-timeout", 10*time.Second, "")
	Expect(flags.Parse([]string{"--log-level=warn"})).To(Succeed())

	cfg, err := Load(path, flags)
	Expect(err).To(BeNil())
	Expect(cfg.Browser.Driver).To(Equal(DriverBaas))
	Expect(cfg.Browser.Headless).To(BeTrue())
	Expect(cfg.Browser.Flags).To(Equal([]string{"lang=en-US"}))
	Expect(cfg.Search.WaitTimeout).To(Equal(5 * time.Second))
	Expect(cfg.Search.ScreenshotDir).To(Equal("/var/shots"))
	Expect(cfg.Baas.Url).To(Equal("http://localhost:8080"))
	Expect(cfg.Baas.ApiKey).To(Equal("from-env"))
	Expect(cfg.Baas.MessageTimeout).To(Equal("45s"))
	Expect(cfg.Log.Level).To(Equal("warn"))
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	RegisterTestingT(t)

	t.Setenv("SNAPSEARCH_BROWSER_DRIVER", "firefox")
	_, err := Load("", nil)
	Expect(err).To(MatchError(ContainSubstring("invalid browser driver")))
}

func TestLoadMissingFile(t *testing.T) {
	RegisterTestingT(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	Expect(err).To(HaveOccurred())
}

func TestValidate(t *testing.T) {
	RegisterTestingT(t)
	cfg, err := Load("", nil)
	Expect(err).To(BeNil())

	cfg.Search.WaitTimeout = 0
	Expect(cfg.Validate()).To(MatchError(ContainSubstring("wait timeout")))

	cfg.Search.WaitTimeout = time.Second
	cfg.Browser.Driver = DriverBaas
	cfg.Baas.Url = ""
	Expect(cfg.Validate()).To(MatchError(ContainSubstring("baas url")))

	cfg.Baas.Url = "http://localhost"
	cfg.Log.Output = "nowhere"
	Expect(cfg.Validate()).To(HaveOccurred())
}
