package main

// Defaults for CLI commands.
const (
	DefaultPages   = 1
	cacheEntity    = "entity"
	cacheRegions   = "regions"
	cachePeople    = "people"
	cliSessionID   = "cli"
	outputJSON     = "json"
	outputText     = "text"
	birthDeathNone = "?"
)

// Valid output formats.
var validFormats = []string{outputText, outputJSON}
