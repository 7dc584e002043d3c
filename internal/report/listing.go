package report

import (
	"bufio"
	"fmt"
	"io"
)

// WriteListing prints a plain-text order listing.
func WriteListing(w io.Writer, orders []OrderView) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "ORDERS:")
	for _, o := range orders {
		fmt.Fprintf(bw, "Order %s:\n", o.OrderNumber)
		fmt.Fprintf(bw, "  Customer: %s\n", o.CustomerName)
		fmt.Fprintf(bw, "  Amount: %s\n", money(o.TotalAmount))
		fmt.Fprintf(bw, "  Status: %s\n", o.Status)
		for _, l := range o.Lines {
			fmt.Fprintf(bw, "    %s\n", lineText(l))
		}
		fmt.Fprintln(bw)
	}

	return bw.Flush()
}
