// sentinel:expect integer_overflow float_equality
package main

import (
	"fmt"
	"math"
)

func main() {
	sum := math.MaxInt
	value := 42
	sum += value // overflow

	money := 10.0
	price := 3.0
	change := money - price*3 // floating precision
	if change == 0.0 {
		fmt.Println("exact")
	}

	fmt.Println(sum, change)
}
