package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-faster/errors"
	flags "github.com/jessevdk/go-flags"
	"github.com/massn/envordot"
	"github.com/oklog/run"

	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/estimation"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/log"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/qpu"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/sampling"

	"go.uber.org/dig"
	"go.uber.org/zap"
)

const estimationJobName = "estimation"

var versionByBuildFlag string
var parser *flags.Parser
var shadowApp *ShadowApp

func init() {
	if err := envordot.Load(false, ".env"); err != nil {
		fmt.Printf("Not found \".env\" file. Use only environment variables. Reason:%s\n", err.Error())
	} else {
		fmt.Println("Found \".env\" file. Environment variables are preferred, " +
			"but non-conflicting variables are those in the \".env\" file.")
	}
	shadowApp = &ShadowApp{}
	setParser(shadowApp)
}

type ShadowApp struct {
	Conf *core.Conf
}

func setParser(app *ShadowApp) {
	parser = flags.NewParser(app, flags.Default)
	parser.ShortDescription = "shadow estimator"
	parser.LongDescription = "predicts a linear functional of an unknown quantum state from randomized measurements."
	parser.AddCommand("estimate", "run one estimation", "sample classical shadows and print the median-of-means prediction", newEstimateCmd())
}

func parse() {
	if _, err := parser.Parse(); err != nil {
		code := 1
		if fe, ok := err.(*flags.Error); ok {
			if fe.Type == flags.ErrHelp {
				code = 0
			}
		}
		if code == 1 {
			fmt.Printf("failed to parse flags, because %s\n", err)
		}
		os.Exit(code)
	}
}

func (a *ShadowApp) provideDIContainer() (*dig.Container, error) {
	c := dig.New()
	err := c.Provide(func() (core.MeasurementOracle, error) {
		switch a.Conf.Oracle {
		case "simulator":
			return &qpu.SimulatorQPU{}, nil
		case "replay":
			return &qpu.ReplayQPU{}, nil
		default:
			return nil, fmt.Errorf("%s is an unknown oracle", a.Conf.Oracle)
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func main() {
	parse()
}

type estimateCmd struct{}

func newEstimateCmd() *estimateCmd {
	return &estimateCmd{}
}

func (c *estimateCmd) Execute(args []string) error {
	logger := setZap(shadowApp.Conf)
	defer logger.Sync()

	core.SetVersion(shadowApp.Conf, versionByBuildFlag)

	setting, err := loadSetting(shadowApp.Conf.SettingPath)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse settings/reason:%s", err))
		return err
	}

	s, err := setupSystemComponents(shadowApp.Conf, setting)
	if err != nil {
		return err
	}
	defer s.TearDown()

	oracle, err := s.Oracle()
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to get oracle/reason:%s", err))
		return err
	}
	progress := sampling.NewProgress()
	job, err := estimation.NewJob(estimation.ParamsFromConf(shadowApp.Conf), oracle, progress)
	if err != nil {
		zap.L().Error(fmt.Sprintf("invalid estimation parameters/reason:%s", err))
		return err
	}
	f, err := buildFunctional(s, setting, job)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to build functional/reason:%s", err))
		return err
	}

	rc := core.NewRunContext(context.Background())
	if err := c.setupRunGroup(rc, job, f, progress); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setup run group. Reason:%s", err))
		return err
	}
	if err := rc.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "execution error:%v\n", err)
		os.Exit(1)
	}
	if res := job.LastResult(); res != nil {
		fmt.Println(res.ToString())
	}
	return nil
}

func (c *estimateCmd) setupRunGroup(rc *core.RunContext, job *estimation.Job, f estimation.Functional, progress *sampling.Progress) error {
	rc.Add(
		run.SignalHandler(
			rc.Context,
			os.Interrupt))

	rc.AddJob(estimationJobName, func(ctx context.Context) error {
		_, err := job.Run(ctx, f)
		return err
	})

	period := time.Duration(shadowApp.Conf.ProgressPeriod) * time.Second
	return rc.AddPeriodicTask(
		&core.PeriodicTask{
			Period: period,
			PeriodicTaskImpl: &log.ProgressLogTaskImpl{
				FileDir:  shadowApp.Conf.MetricsDir,
				Progress: progress,
			},
		},
		log.ProgressLogTaskName)
}

// loadSetting falls back to component defaults when the file does not exist.
func loadSetting(path string) (*core.Setting, error) {
	setting, err := core.ParseSettingFromPath(path)
	if errors.Is(err, fs.ErrNotExist) {
		zap.L().Warn(fmt.Sprintf("setting file %s not found, using defaults", path))
		return core.NewSetting(), nil
	}
	return setting, err
}

func buildFunctional(s *core.SystemComponents, setting *core.Setting, job *estimation.Job) (estimation.Functional, error) {
	es, err := estimation.LoadEstimationSetting(setting)
	if err != nil {
		return nil, err
	}
	ref, err := s.ReferenceState()
	if err != nil {
		zap.L().Debug(fmt.Sprintf("no reference state/reason:%s", err))
	}
	return es.Build(job.Params().Qubits, job.Ensemble(), ref)
}

func setZap(conf *core.Conf) *zap.Logger {
	logger, err := log.NewZapLogger(conf)
	if err != nil {
		fmt.Printf("Failed to setup logger. Reason:%s\n", err)
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	zap.L().Info("Starting logger")
	zap.L().Info(fmt.Sprintf("DevMode is %t", conf.DevMode))
	zap.L().Info(fmt.Sprintf("Log rotation max days is %d", conf.LogRotationMaxDays))
	return logger
}

func setupSystemComponents(conf *core.Conf, setting *core.Setting) (*core.SystemComponents, error) {
	zap.L().Debug(fmt.Sprintf("Providing DI Container with oracle %s", conf.Oracle))
	container, err := shadowApp.provideDIContainer()
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setting up DI-Container. Reason:%s", err.Error()))
		return nil, err
	}
	zap.L().Debug("Setting up System Components")
	s := core.NewSystemComponents(container)
	if err := s.Setup(conf, setting); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setting up Container. Reason:%s", err.Error()))
		return nil, err
	}
	return s, nil
}
