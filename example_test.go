package userstream_test

import (
	"context"
	"fmt"

	"github.com/bjaus/userstream"
)

func exampleRecords() []userstream.Record {
	return []userstream.Record{
		{UserID: "u1", Name: "Alice", Email: "alice@example.com", Age: 28},
		{UserID: "u2", Name: "Bob", Email: "bob@example.com", Age: 34},
		{UserID: "u3", Name: "Cara", Email: "cara@example.com", Age: 42},
		{UserID: "u4", Name: "Dana", Email: "dana@example.com", Age: 23},
		{UserID: "u5", Name: "Eve", Email: "eve@example.com", Age: 51},
	}
}

func ExampleReader_Rows() {
	src := userstream.NewMemorySource(exampleRecords())

	for rec, err := range userstream.NewReader(src).Rows(context.Background()) {
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println(rec.Name, rec.Age)
	}

	// Output:
	// Alice 28
	// Bob 34
	// Cara 42
	// Dana 23
	// Eve 51
}

func ExampleReader_Batches() {
	src := userstream.NewMemorySource(exampleRecords())
	reader := userstream.NewReader(src).
		WithFilter(func(r userstream.Record) bool { return r.Age > 25 })

	n := 0
	for batch, err := range reader.Batches(context.Background(), 2) {
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		n++
		fmt.Printf("batch %d: %d users over 25\n", n, len(batch))
	}

	// Output:
	// batch 1: 2 users over 25
	// batch 2: 1 users over 25
	// batch 3: 1 users over 25
}

func ExampleAverageAge() {
	src := userstream.NewMemorySource([]userstream.Record{
		{UserID: "u1", Name: "Alice", Email: "alice@example.com", Age: 28},
		{UserID: "u2", Name: "Bob", Email: "bob@example.com", Age: 34},
		{UserID: "u3", Name: "Cara", Email: "cara@example.com", Age: 40},
	})

	avg, err := userstream.AverageAge(context.Background(), userstream.NewReader(src))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("average age: %v\n", avg)

	// Output:
	// average age: 34
}

func ExampleQueryCache() {
	cache := userstream.NewQueryCache()
	ctx := context.Background()

	fetch := func(context.Context) ([]userstream.Record, error) {
		fmt.Println("querying the store")
		return exampleRecords(), nil
	}

	first, _ := cache.Fetch(ctx, "SELECT * FROM user_data", fetch)
	cached, _ := cache.Fetch(ctx, "select * from user_data", fetch)
	fmt.Println(len(first), len(cached))

	// Output:
	// querying the store
	// 5 5
}
