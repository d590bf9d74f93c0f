package config

import "github.com/joho/godotenv"

// LoadDotenv reads .env then lets .env.local override it; missing files are ignored
func LoadDotenv(dir string) {
	if dir == "" {
		dir = "."
	}
	_ = godotenv.Load(dir + "/.env")
	_ = godotenv.Overload(dir + "/.env.local")
}
