package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fr4nk3nst1ner/jobdesk/internal/board"
	"github.com/fr4nk3nst1ner/jobdesk/internal/client"
	"github.com/fr4nk3nst1ner/jobdesk/internal/config"
	"github.com/fr4nk3nst1ner/jobdesk/internal/form"
	"github.com/fr4nk3nst1ner/jobdesk/internal/ui"
)

// options holds the parsed command line
type options struct {
	flags *flag.FlagSet

	cmd        string
	configPath string
	apiURL     string
	port       int
	debug      bool
	silence    bool
	examples   bool

	// list filters, also used as posting fields by add/edit
	search   string
	jobType  string
	location string
	tags     string
	sort     string
	page     int
	table    bool

	id          int64
	title       string
	company     string
	description string
	salary      string
	level       string
	yes         bool

	force      bool
	file       string
	greenhouse string
	lever      string
	keyword    string
	remote     bool
}

// fieldFlags maps posting flags to form fields
var fieldFlags = map[string]string{
	"title":       form.FieldTitle,
	"company":     form.FieldCompany,
	"location":    form.FieldLocation,
	"type":        form.FieldJobType,
	"tags":        form.FieldTags,
	"description": form.FieldDescription,
	"salary":      form.FieldSalaryRange,
	"level":       form.FieldExperienceLevel,
}

func parseOptions(args []string) (*options, error) {
	o := &options{flags: flag.NewFlagSet("jobdesk", flag.ContinueOnError)}
	fs := o.flags

	fs.StringVar(&o.cmd, "cmd", "list", "Command to run (list, show, add, edit, delete, filters, browse, web, seed, import)")
	fs.StringVar(&o.configPath, "config", "", "Path to config.yaml (default: search the usual locations)")
	fs.StringVar(&o.apiURL, "api", "", "Base URL of the job board API, overrides the config")
	fs.IntVar(&o.port, "port", 0, "Port for the web interface, overrides the config")
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&o.silence, "silence", false, "Silence the banner")
	fs.BoolVar(&o.examples, "examples", false, "Show usage examples")

	fs.StringVar(&o.search, "search", "", "Search title, company and description")
	fs.StringVar(&o.jobType, "type", "", "Job type (Full-time, Part-time, Contract, Internship, Temporary)")
	fs.StringVar(&o.location, "location", "", "Location")
	fs.StringVar(&o.tags, "tags", "", "Tags, comma separated when adding or editing")
	fs.StringVar(&o.sort, "sort", "", "Sort order (posting_date_desc, posting_date_asc, title_asc, title_desc, company_asc, company_desc)")
	fs.IntVar(&o.page, "page", 1, "Page to show")
	fs.BoolVar(&o.table, "table", false, "Show the list as a compact table")

	fs.Int64Var(&o.id, "id", 0, "Posting id for show, edit and delete")
	fs.StringVar(&o.title, "title", "", "Posting title")
	fs.StringVar(&o.company, "company", "", "Company name")
	fs.StringVar(&o.description, "description", "", "Posting description")
	fs.StringVar(&o.salary, "salary", "", "Salary range, e.g. \"$120,000 - $150,000\"")
	fs.StringVar(&o.level, "level", "", "Experience level (Entry Level, Mid Level, Senior Level, Executive)")
	fs.BoolVar(&o.yes, "yes", false, "Delete without asking for confirmation")

	fs.BoolVar(&o.force, "force", false, "Seed even when the board already has postings")
	fs.StringVar(&o.file, "file", "", "YAML or JSON file of postings to import")
	fs.StringVar(&o.greenhouse, "greenhouse", "", "Comma separated Greenhouse board names to import from")
	fs.StringVar(&o.lever, "lever", "", "Comma separated Lever company names to import from")
	fs.StringVar(&o.keyword, "keyword", "", "Only import postings whose title contains this keyword")
	fs.BoolVar(&o.remote, "remote", false, "Only import remote postings")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	o.cmd = strings.ToLower(strings.TrimSpace(o.cmd))
	return o, nil
}

// applyFields copies the posting flags that were given onto f
func (o *options) applyFields(f *form.Form) {
	o.flags.Visit(func(fl *flag.Flag) {
		if field, ok := fieldFlags[fl.Name]; ok {
			f.Set(field, fl.Value.String())
		}
	})
}

// applyConfig lets explicit flags override the loaded configuration
func (o *options) applyConfig(cfg *config.Config) {
	if o.apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(o.apiURL, "/")
	}
	if o.port > 0 {
		cfg.Web.Port = o.port
	}
	if o.remote {
		cfg.Import.RemoteOnly = true
	}
}

// greenhouseBoards returns the boards given by -greenhouse, or the configured ones
func (o *options) greenhouseBoards(cfg *config.Config) []string {
	if o.greenhouse == "" {
		return cfg.Import.GreenhouseBoards
	}
	return splitList(o.greenhouse)
}

// leverCompanies returns the companies given by -lever, or the configured ones
func (o *options) leverCompanies(cfg *config.Config) []string {
	if o.lever == "" {
		return cfg.Import.LeverCompanies
	}
	return splitList(o.lever)
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// printExamples displays usage examples for the program
func printExamples() {
	fmt.Println("\n📋 JobDesk Usage Examples 📋")
	fmt.Println("\n1. List remote contract postings mentioning \"pricing\", newest first:")
	fmt.Println("   jobdesk -search pricing -location Remote -type Contract")

	fmt.Println("\n2. Show page 2 as a compact table, sorted by company:")
	fmt.Println("   jobdesk -page 2 -sort company_asc -table")

	fmt.Println("\n3. Show one posting with its full description:")
	fmt.Println("   jobdesk -cmd show -id 4")

	fmt.Println("\n4. Add a posting:")
	fmt.Println("   jobdesk -cmd add -title \"Reserving Actuary\" -company \"Global Re\" -location \"London, UK\" -tags \"Reserving, P&C\"")

	fmt.Println("\n5. Change the salary of an existing posting:")
	fmt.Println("   jobdesk -cmd edit -id 4 -salary \"$150,000 - $180,000\"")

	fmt.Println("\n6. Browse the board interactively:")
	fmt.Println("   jobdesk -cmd browse")

	fmt.Println("\n7. Serve the web interface on port 8080 (set WEB_USERNAME/WEB_PASSWORD to protect edits):")
	fmt.Println("   jobdesk -cmd web -port 8080")

	fmt.Println("\n8. Seed an empty board with sample postings, or import from Greenhouse and Lever:")
	fmt.Println("   jobdesk -cmd seed")
	fmt.Println("   jobdesk -cmd import -greenhouse \"acme,globex\" -keyword actuar -remote")
	fmt.Println("   jobdesk -cmd import -lever \"global-re\" -file postings.yaml")

	fmt.Println("\nFor more information, visit: https://github.com/fr4nk3nst1ner/jobdesk")
}

// newLogger builds the CLI logger: human readable, warnings and up unless -debug
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	// The web server logs to stdout; keep the banner out of its way
	ui.PrintBanner(opts.silence || opts.cmd == "web")

	if opts.examples {
		printExamples()
		return
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	opts.applyConfig(cfg)

	logger, err := newLogger(opts.debug)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	httpClient := client.CreateHTTPClient(cfg.API.Timeout, cfg.API.Proxy, cfg.API.InsecureTLS)
	api := client.New(cfg.API.BaseURL, client.WithHTTPClient(httpClient), client.WithLogger(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		opts:   opts,
		cfg:    cfg,
		api:    api,
		logger: logger,
		out:    os.Stdout,
		board: board.New(api, board.Options{
			PerPage:       cfg.Board.PerPage,
			ToastDuration: cfg.Board.ToastDuration,
			Logger:        logger,
		}),
	}

	if err := a.run(ctx); err != nil {
		stop()
		_ = logger.Sync()
		log.Fatalf("Error: %v", err)
	}
}
