package main

import (
	"context"
	"fmt"
	"os"
	"time"
)

func main() {
	f, err := os.Open("config.yaml")
	if err != nil {
		return
	}
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	select {
	case <-ctx.Done():
	case t := <-ticker.C:
		fmt.Println(t)
	}
}
