package cli

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/dayplan/internal/config"
	"github.com/sadopc/dayplan/internal/log"
	"github.com/sadopc/dayplan/internal/planner"
	"github.com/sadopc/dayplan/internal/store"
)

// env is an opened planner ready for one command.
type env struct {
	cfg     *config.Config
	cfgPath string
	loc     *time.Location
	store   *store.Store
	svc     *planner.Service
	clock   planner.Clock
	logFile *os.File
}

// loadConfig reads the config file and applies flag and environment
// overrides.
func (o *options) loadConfig() (*config.Config, string, error) {
	path := o.v.GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, "", err
		}
		path = p
	}
	path, err := config.ExpandPath(path)
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	if s := o.v.GetString("db_path"); s != "" {
		cfg.DBPath = s
	}
	if s := o.v.GetString("timezone"); s != "" {
		cfg.Timezone = s
	}
	if s := o.v.GetString("log_level"); s != "" {
		cfg.LogLevel = s
	}
	return cfg, path, nil
}

type logTarget int

const (
	logToStderr logTarget = iota
	// logToFile keeps the terminal clean for the UI: output goes to the
	// configured log file or nowhere.
	logToFile
)

// open loads the config, configures logging and opens the planner.
func (o *options) open(cmd *cobra.Command, target logTarget) (*env, error) {
	cfg, path, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, cfgPath: path}

	if err := e.setupLog(target, cmd.ErrOrStderr()); err != nil {
		return nil, err
	}

	if e.loc, err = cfg.Location(); err != nil {
		e.Close()
		return nil, err
	}
	dbPath, err := cfg.DatabasePath()
	if err != nil {
		e.Close()
		return nil, err
	}
	if e.store, err = store.New(dbPath); err != nil {
		e.Close()
		return nil, err
	}
	if e.svc, err = e.service(); err != nil {
		e.Close()
		return nil, err
	}

	e.clock = o.clock
	if e.clock == nil {
		e.clock = planner.SystemClock(e.loc)
	}
	return e, nil
}

// service hydrates a fresh planner from the database.
func (e *env) service() (*planner.Service, error) {
	m, err := e.store.LoadPlanner()
	if err != nil {
		return nil, err
	}
	return planner.NewService(m, e.store.Policy(), e.loc), nil
}

func (e *env) setupLog(target logTarget, stderr io.Writer) error {
	lvl, err := log.ParseLevel(e.cfg.LogLevel)
	if err != nil {
		return err
	}
	var w io.Writer = stderr
	if target == logToFile {
		w = nil
		if e.cfg.LogFile != "" {
			p, err := config.ExpandPath(e.cfg.LogFile)
			if err != nil {
				return err
			}
			f, err := log.OpenFile(p)
			if err != nil {
				return err
			}
			e.logFile = f
			w = f
		}
	}
	return log.Setup(log.Options{Level: lvl, Output: w})
}

func (e *env) Close() error {
	var err error
	if e.store != nil {
		err = e.store.Close()
	}
	if e.logFile != nil {
		e.logFile.Close()
	}
	return err
}
