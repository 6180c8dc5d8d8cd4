// sentinel:expect file_handle context_cancel
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	f, err := os.Open("config.yaml") // never closed
	if err != nil {
		return
	}
	buf := make([]byte, 64)
	n, _ := f.Read(buf)

	ctx, _ := context.WithCancel(context.Background()) // cancel discarded
	fmt.Println(ctx.Err(), string(buf[:n]))
}
