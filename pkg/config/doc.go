// Package config provides the configuration file for the mockgate command.
//
// A configuration lists handlers in priority order. Each entry names exactly
// one kind:
//
//	listen: 127.0.0.1:8080
//	log:
//	  level: debug
//	handlers:
//	  - replay:
//	      file: fixtures/todos.json
//	  - gateway:
//	      prefix: /api
//	      upstream: https://jsonplaceholder.typicode.com
//	      output: fixtures/todos.json
//	      timeout: 30s
//	      exclude: ["/api/health"]
//
// Files ending in .yaml or .yml are parsed as YAML, anything else as JSON.
// Inline replay entries use the same encoding as replay files. Relative
// paths resolve against the directory containing the configuration file.
//
// The environment variables MOCKGATE_LISTEN, MOCKGATE_LOG_LEVEL and
// MOCKGATE_LOG_FORMAT override the corresponding settings.
package config
