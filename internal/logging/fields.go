package logging

import "github.com/sirupsen/logrus"

// BaseFields builds the action + config-path fields every startup/CLI log
// line carries.
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// RequestFields groups the fields a per-request log line needs: the
// resolved site, the request ID, method/path, and whether the response
// came from cache.
func RequestFields(requestID, host, canonicalHost, method, path string, cacheHit bool) logrus.Fields {
	return logrus.Fields{
		"request_id":     requestID,
		"host":           host,
		"canonical_host": canonicalHost,
		"method":         method,
		"path":           path,
		"cache_hit":      cacheHit,
	}
}

// HookFields groups the fields a hook-chain log line needs.
func HookFields(hookName, source string, policy string) logrus.Fields {
	return logrus.Fields{
		"hook_name": hookName,
		"source":    source,
		"policy":    policy,
	}
}
