package layered_test

import (
	"fmt"

	"github.com/matzehuels/mmac/pkg/layered"
)

func ExampleGraph_SwapAdjacent() {
	// Two layers, IDs 1,2 on top and 3,4 below; the edges form an X.
	g, _ := layered.New([]int{2, 2})
	_ = g.AddEdge(1, 4)
	_ = g.AddEdge(2, 3)
	g.RecountCrossings()
	fmt.Println("before:", g.MaxCross(), g.Order(1))

	g.SwapAdjacent(1, 0)
	fmt.Println("after:", g.MaxCross(), g.Order(1))
	// Output:
	// before: 1 [3 4]
	// after: 0 [4 3]
}

func ExampleTotalCrossings() {
	g, _ := layered.New([]int{3, 3})
	for u := 1; u <= 3; u++ {
		for v := 4; v <= 6; v++ {
			_ = g.AddEdge(u, v)
		}
	}
	fmt.Println(layered.TotalCrossings(g))
	// Output: 9
}
