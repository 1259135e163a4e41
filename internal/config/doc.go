// Package config provides configuration parsing for the incdom tools.
//
// The configuration is stored in incdom.json. Every field is optional;
// missing fields take their defaults.
//
// # Configuration File Structure
//
//	{
//	  "debug": true,
//	  "logLevel": "debug",
//	  "metrics": {
//	    "namespace": "incdom"
//	  },
//	  "inspect": {
//	    "addr": "localhost:7070"
//	  },
//	  "bench": {
//	    "listSize": 1000,
//	    "iterations": 200
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Inspector:", cfg.Inspect.Addr)
package config
