package log

// Component and operation identification.
const (
	ModelNameKey = "model.name"
	ComponentKey = "ml.component"
	OperationKey = "ml.operation"
	PhaseKey     = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	ClassesKey  = "data.classes"
	FeatureKey  = "data.feature"
	ValueKey    = "data.value"
	RowKey      = "data.row"
)

// Tree growth and hyperparameters.
const (
	AlgorithmKey       = "tree.algorithm"
	DepthKey           = "tree.depth"
	NodesKey           = "tree.nodes"
	LeavesKey          = "tree.leaves"
	SplitKey           = "tree.split"
	ScoreKey           = "tree.score"
	MaxDepthKey        = "hyperparams.max_depth"
	MinSamplesSplitKey = "hyperparams.min_samples_split"
	MinSamplesLeafKey  = "hyperparams.min_samples_leaf"
	RandomSeedKey      = "config.random_seed"
)

// Memoization cache.
const (
	CacheHitsKey    = "cache.hits"
	CacheMissesKey  = "cache.misses"
	CacheHitRateKey = "cache.hit_rate"
	CacheEntriesKey = "cache.entries"
)

// Performance, predictions and metrics.
const (
	DurationMsKey = "perf.duration_ms"
	PredsKey      = "preds.count"
	FallbacksKey  = "preds.fallbacks"
	AccuracyKey   = "metrics.accuracy"
)

// Error reporting.
const (
	ErrorKey      = "error"
	ErrorTypeKey  = "error.type"
	StacktraceKey = "error.stacktrace"
	WarningKey    = "warning"
)

const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"
	OperationExport  = "export"

	PhaseTraining  = "training"
	PhaseTesting   = "testing"
	PhaseInference = "inference"
)
