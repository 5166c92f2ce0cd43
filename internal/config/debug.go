package config

import "os"

func IsDebug() bool {
	return os.Getenv("DAZI_DEBUG") == "1"
}
