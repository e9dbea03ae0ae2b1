package config

import "os"

// osLookupEnv is a thin indirection over os.LookupEnv so Load's override
// detection can be unit tested by swapping this var.
var osLookupEnv = os.LookupEnv
