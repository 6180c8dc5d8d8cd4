package main

import (
	"fmt"
	"log"

	"github.com/govalues/decimal"
)

func main() {
	money := decimal.MustParse("10")
	price := decimal.MustParse("3")

	tripled, err := price.Mul(decimal.MustParse("3"))
	if err != nil {
		log.Fatal(err)
	}
	change, err := money.Sub(tripled)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(change)
}
