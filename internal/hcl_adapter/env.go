package hcl_adapter

import (
	"os"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// envVars exposes the process environment to scene files as the `env` map,
// so `workers = lookup(env, "RIDGEGROW_WORKERS", 4)` works.
func envVars(environ []string) cty.Value {
	envMap := make(map[string]cty.Value)
	for _, e := range environ {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 && pair[0] != "" {
			envMap[pair[0]] = cty.StringVal(pair[1])
		}
	}
	if len(envMap) == 0 {
		return cty.MapValEmpty(cty.String)
	}
	return cty.MapVal(envMap)
}

func processEnv() cty.Value {
	return envVars(os.Environ())
}
