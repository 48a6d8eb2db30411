package lookup_test

import (
	"fmt"
	"time"

	"github.com/goliatone/go-lookup/lookup"
)

func ExampleGetOr() {
	src := mapSource(map[string]any{"port": "9090"})

	port, _ := lookup.GetOr(src, "port", 8080)
	timeout, _ := lookup.GetOr(src, "timeout", 30)
	fmt.Println(port, timeout)
	// Output: 9090 30
}

func ExampleGetWith() {
	src := mapSource(map[string]any{"ttl": "1m30s"})

	ttl, err := lookup.GetWith(src, "ttl", lookup.FromString(time.ParseDuration))
	if err != nil {
		panic(err)
	}
	fmt.Println(ttl)
	// Output: 1m30s
}

func ExampleFlexibleBool() {
	src := mapSource(map[string]any{"subscribe": "on", "terms": "Yes"})

	subscribe, _ := lookup.GetWith(src, "subscribe", lookup.FlexibleBool())
	terms, _ := lookup.GetWith(src, "terms", lookup.FlexibleBool("yes"))
	fmt.Println(subscribe, terms)
	// Output: true true
}
