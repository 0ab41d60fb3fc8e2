// Package config loads typed configuration from environment variables.
//
// Structs declare their variables with caarlos0/env tags; Load parses them
// once per type and caches the result, so any package can ask for its
// configuration without threading it through constructors. Dotenv files are
// supported through joho/godotenv: .env is read automatically, LoadEnv reads
// additional files.
package config
