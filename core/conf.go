package core

type Conf struct {
	Version            string `long:"version" description:"version of shadow estimator" env:"QIQB_SHADOW_VERSION"`
	DevMode            bool   `long:"dev-mode" description:"run in dev mode" env:"QIQB_SHADOW_DEV_MODE"`
	DisableStdoutLog   bool   `long:"disable-stdout-log" description:"do not log in standard output" env:"QIQB_SHADOW_DISABLE_STDOUT_LOG"`
	EnableFileLog      bool   `long:"enable-file-log" description:"enable log in file" env:"QIQB_SHADOW_ENABLE_FILE_LOG"`
	LogDir             string `long:"log-dir" description:"rotating log file dir" default:"./shares/logs" env:"QIQB_SHADOW_LOG_DIR"`
	LogLevel           string `long:"log-level" description:"log level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" env:"QIQB_SHADOW_LOG_LEVEL"`
	LogRotationMaxDays int    `long:"log-rotation-max-days" description:"max days of log rotation" default:"7" env:"QIQB_SHADOW_LOG_ROTATION_MAX_DAYS"`
	SettingPath        string `long:"setting-path" description:"setting file path" default:"./setting/setting.toml" env:"QIQB_SHADOW_SETTING_PATH"`
	MetricsDir         string `long:"metrics-dir" description:"directory of daily progress metrics, disabled when empty" env:"QIQB_SHADOW_METRICS_DIR"`
	ProgressPeriod     int    `long:"progress-period" description:"progress log period in seconds" default:"1" env:"QIQB_SHADOW_PROGRESS_PERIOD"`

	Oracle        string `long:"oracle" description:"measurement oracle" default:"simulator" choice:"simulator" choice:"replay" env:"QIQB_SHADOW_ORACLE"`
	Qubits        int    `long:"qubits" description:"number of qubits n" default:"2" env:"QIQB_SHADOW_QUBITS"`
	Shots         int    `long:"shots" description:"total number of shots N" default:"500" env:"QIQB_SHADOW_SHOTS"`
	Batches       int    `long:"batches" description:"number of median-of-means batches K" default:"100" env:"QIQB_SHADOW_BATCHES"`
	Ensemble      string `long:"ensemble" description:"random unitary ensemble" default:"global_clifford" choice:"global_clifford" choice:"global_haar" choice:"pauli" env:"QIQB_SHADOW_ENSEMBLE"`
	Seed          uint64 `long:"seed" description:"seed of the random unitary stream" default:"0" env:"QIQB_SHADOW_SEED"`
	Workers       int    `long:"workers" description:"number of shot workers" default:"4" env:"QIQB_SHADOW_WORKERS"`
	CliffordDepth int    `long:"clifford-depth" description:"random walk depth of the Clifford sampler, 0 uses 8n^2+16" default:"0" env:"QIQB_SHADOW_CLIFFORD_DEPTH"`
	Stream        bool   `long:"stream" description:"build batch means from a sequential shot stream instead of keeping every snapshot" env:"QIQB_SHADOW_STREAM"`

	EnableOracleLatency bool `long:"enable-oracle-latency" description:"insert a fixed latency into every simulated measurement" env:"QIQB_SHADOW_ENABLE_ORACLE_LATENCY"`
	OracleLatency       int  `long:"oracle-latency" description:"simulated measurement latency in milliseconds" default:"10" env:"QIQB_SHADOW_ORACLE_LATENCY"`
}
