package models

// EnvVar is a single KEY=VALUE line of the executor environment file.
type EnvVar struct {
	Key   string
	Value string // written verbatim, including any quoting
}

// EnvRecord is the ordered content of the executor .env file.
type EnvRecord struct {
	Vars []EnvVar
}

// Add appends a line.
func (r *EnvRecord) Add(key, value string) {
	r.Vars = append(r.Vars, EnvVar{Key: key, Value: value})
}

// Get returns the raw value for key.
func (r *EnvRecord) Get(key string) (string, bool) {
	for _, v := range r.Vars {
		if v.Key == key {
			return v.Value, true
		}
	}
	return "", false
}

// Tunable is an optional numeric executor setting the operator may override.
type Tunable struct {
	Key         string
	Description string
	Default     uint64
}

// DefaultTunables returns the executor knobs offered during configuration.
func DefaultTunables() []Tunable {
	return []Tunable{
		{Key: "EXECUTOR_MAX_BID_AMOUNT", Description: "Maximum amount per bid", Default: 1000},
		{Key: "EXECUTOR_MIN_ORDER_VALUE", Description: "Minimum order value to process", Default: 10},
		{Key: "EXECUTOR_CONCURRENT_REQUESTS", Description: "Number of requests processed in parallel", Default: 5},
		{Key: "EXECUTOR_GAS_LIMIT", Description: "Gas limit per transaction", Default: 200000},
	}
}
