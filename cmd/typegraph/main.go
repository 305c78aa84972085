// Command typegraph discovers the type ancestry of names in a SPARQL knowledge graph and serves
// the same operations over HTTP.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/persistorai/typegraph/client"
	"github.com/persistorai/typegraph/internal/config"
	"github.com/persistorai/typegraph/internal/kg"
)

// Build-time variables set via ldflags.
var (
	commit    = ""
	buildDate = ""
)

const (
	defaultEndpoint = "https://dbpedia.org/sparql"
	defaultLogLevel = "warn"
)

var (
	apiClient    *client.Client
	flagEndpoint string
	flagServer   string
	flagFmt      string
	flagLogLevel string
	flagOntology string
	flagResource string
	flagLanguage string
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("typegraph version %s (commit: %s, built: %s)", config.Version, commit, buildDate)
	}
	return fmt.Sprintf("typegraph version %s", config.Version)
}

type configFile struct {
	// Flat format
	configProfile `yaml:",inline"`
	// Profile format
	Profiles      map[string]configProfile `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

type configProfile struct {
	Endpoint string `yaml:"endpoint"`
	Server   string `yaml:"server"`
	LogLevel string `yaml:"log_level"`
	Ontology string `yaml:"ontology"`
	Resource string `yaml:"resource"`
	Language string `yaml:"language"`
}

// setting ties a flag variable to its default, its environment variable and its config file value.
type setting struct {
	flag *string
	def  string
	env  string
	file func(configProfile) string
}

func settings() []setting {
	return []setting{
		{&flagEndpoint, defaultEndpoint, "TYPEGRAPH_ENDPOINT", func(p configProfile) string { return p.Endpoint }},
		{&flagServer, "", "TYPEGRAPH_SERVER", func(p configProfile) string { return p.Server }},
		{&flagLogLevel, defaultLogLevel, "TYPEGRAPH_LOG_LEVEL", func(p configProfile) string { return p.LogLevel }},
		{&flagOntology, kg.DefaultOntology, "TYPEGRAPH_ONTOLOGY", func(p configProfile) string { return p.Ontology }},
		{&flagResource, kg.DefaultResource, "TYPEGRAPH_RESOURCE", func(p configProfile) string { return p.Resource }},
		{&flagLanguage, kg.DefaultLanguage, "TYPEGRAPH_LANGUAGE", func(p configProfile) string { return p.Language }},
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "typegraph",
		Short:   "typegraph: type ancestry discovery over SPARQL knowledge graphs",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			if flagServer != "" {
				apiClient = client.New(flagServer)
			}
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", defaultEndpoint, "SPARQL endpoint for local discovery (env: TYPEGRAPH_ENDPOINT)")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "typegraph server URL; when set, commands run remotely (env: TYPEGRAPH_SERVER)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", defaultLogLevel, "Log level for local runs (env: TYPEGRAPH_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&flagOntology, "ontology", kg.DefaultOntology, "Ontology namespace for local runs (env: TYPEGRAPH_ONTOLOGY)")
	rootCmd.PersistentFlags().StringVar(&flagResource, "resource", kg.DefaultResource, "Resource namespace for local runs (env: TYPEGRAPH_RESOURCE)")
	rootCmd.PersistentFlags().StringVar(&flagLanguage, "language", kg.DefaultLanguage, "Label language for local name resolution (env: TYPEGRAPH_LANGUAGE)")

	rootCmd.AddCommand(newDiscoverCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newLookupCmd())
	rootCmd.AddCommand(newRunsCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveConfig() {
	// Flag takes precedence, then env, then config file. A flag still at its default counts as unset.
	all := settings()
	for _, st := range all {
		if *st.flag == st.def {
			if v := os.Getenv(st.env); v != "" {
				*st.flag = v
			}
		}
	}

	// Try config file for any remaining defaults.
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	data, err := os.ReadFile(filepath.Join(home, ".typegraph", "config.yaml"))
	if err != nil {
		return
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return
	}

	// Resolve from profiles if available, fall back to flat format.
	var profile configProfile
	if cfg.Profiles != nil {
		profileName := cfg.ActiveProfile
		if profileName == "" {
			profileName = "default"
		}
		profile = cfg.Profiles[profileName]
	}

	for _, st := range all {
		if *st.flag != st.def {
			continue
		}
		if v := st.file(profile); v != "" {
			*st.flag = v
		} else if v := st.file(cfg.configProfile); v != "" {
			*st.flag = v
		}
	}
}

// newCLILogger returns a text logger on stderr so stdout stays parseable.
func newCLILogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	level, err := logrus.ParseLevel(flagLogLevel)
	if err != nil {
		fatal("parse log level", err)
	}
	log.SetLevel(level)

	return log
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
