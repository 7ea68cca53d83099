package mailbox_test

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/creachadair/trafficlight/mailbox"
)

func ExampleMailbox() {
	m := mailbox.New[string]()

	// Sends do not block. Values not yet received are replaced.
	m.Send("apple")
	m.Send("pear")
	m.Send("plum")

	// A receiver gets only the most recent value.
	v, err := m.Receive(context.Background())
	if err != nil {
		log.Fatalf("Receive: %v", err)
	}
	fmt.Println(v)
	fmt.Println("dropped:", m.Dropped())

	// Output:
	// plum
	// dropped: 2
}

func ExampleMailbox_Await() {
	var wg sync.WaitGroup
	defer wg.Wait()

	m := mailbox.New[int]()
	ready := make(chan struct{})

	// Await does not consume, so every waiter sees the matching value.
	var start sync.WaitGroup
	for i := range 2 {
		start.Add(1)
		wg.Go(func() {
			start.Done()
			v, err := m.Await(context.Background(), func(v int) bool { return v >= 10 })
			if err != nil {
				log.Fatalf("Await: %v", err)
			}
			<-ready
			fmt.Printf("waiter %d saw %d\n", i+1, v)
		})
	}
	start.Wait()

	m.Send(3)
	m.Send(10)
	close(ready)

	// Unordered output:
	// waiter 1 saw 10
	// waiter 2 saw 10
}
