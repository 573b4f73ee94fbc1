// Package config provides configuration loading for the indicator jobs, the
// orchestrator and the query service.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. config.yaml, or the file named by INDICATORS_CONFIG
//	3. Default values from struct tags (lowest priority)
//
// A .env file in the working directory is loaded into the environment first.
//
// # Environment Variables
//
// All environment variables follow the pattern INDICATORS_<SECTION>_<FIELD>:
//
//	INDICATORS_DATABASE_DRIVER=postgres
//	INDICATORS_DATABASE_DSN=postgres://...
//	INDICATORS_LOGGING_LEVEL=debug
//	INDICATORS_ARCHIVE_BACKEND=s3
//	INDICATORS_SERVER_PORT=5000
//
// # Job Manifest
//
// The orchestrator accepts a YAML manifest:
//
//	jobs:
//	  - name: employment
//	    args: ["Argentina"]
//	    timeout_seconds: 1200
//	  - name: inflation
//	    args: ["202401", "202503", "3"]
//
// Source endpoints are constants and cannot be overridden.
package config
