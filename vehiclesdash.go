// Package vehiclesdash is the core of a used-vehicle listings dashboard.
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/vehiclesdash/dataset"
//	    "github.com/spektr-org/vehiclesdash/engine"
//	)
//
//	cache := dataset.NewCache(logger)
//	table, err := cache.GetOrLoad("datasets/vehicles_us.csv")
//	result, err := engine.Execute(engine.Request{
//	    Kind:     engine.KindBar,
//	    Column:   "type",
//	    Criteria: engine.Criteria{Price: engine.Between(5000, 20000), Condition: "good"},
//	}, table)
//
// The engine takes a Request (plain values from any interactive surface) and a
// loaded Table, and returns render-ready output (chart config, table data, or
// overview). It never touches the file system or the network.
package vehiclesdash
