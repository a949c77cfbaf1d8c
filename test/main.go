package main

import (
	"fmt"
	"net/netip"

	"github.com/hansthienpondt/nipam/pkg/table"
	"github.com/henderiw/intervalset/pkg/bandtable"
	"github.com/henderiw/intervalset/pkg/interval"
	"github.com/henderiw/intervalset/pkg/ipgap"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/selection"
)

var ranges = []string{
	"[12, 20]",
	"(3, 7]",
	"[1, 5)",
	"[5, 10)",
}

func main() {
	set, err := interval.NewSetFromStrings(interval.DefaultOptions(), ranges...)
	if err != nil {
		panic(err)
	}
	fmt.Println("merged", set.String())
	fmt.Println("measure", set.Measure())

	for _, gap := range set.Gaps() {
		fmt.Println("gap", gap.String())
	}

	span := interval.MustParse("[0, 25]")
	for _, free := range set.GapsWithin(span) {
		fmt.Println("free within", span.String(), free.String())
	}

	set.CreateGap(interval.MustParse("[6, 8)"))
	fmt.Println("carved", set.String())

	bands()
	ipgaps()
}

func bands() {
	scores := []float64{7.5, 12, 3.25, 88, 41, 9, 17, 56, 23, 64, 29, 35}
	bt, err := bandtable.NewFromScores([]string{"bronze", "silver", "gold"}, scores)
	if err != nil {
		panic(err)
	}
	for _, b := range bt.GetAll() {
		fmt.Println("band", b.String())
	}

	ls, err := GetLabelSelector(map[string]string{"band": "gold"})
	if err != nil {
		panic(err)
	}
	for _, b := range bt.GetByLabel(ls) {
		fmt.Println("band by label", b.String())
	}

	if err := bt.ClaimString("guest", "[-10, 0)", labels.Set{"band": "guest"}); err != nil {
		panic(err)
	}
	bt.Chain()
	for _, b := range bt.GetAll() {
		fmt.Println("chained band", b.String())
	}
}

func ipgaps() {
	t, err := ipgap.New(netip.MustParseAddr("10.0.0.0"), netip.MustParseAddr("10.0.0.255"))
	if err != nil {
		panic(err)
	}
	if err := t.Claim("10.0.0.0/26", table.Route{}); err != nil {
		panic(err)
	}
	if err := t.ClaimRange("10.0.0.100-10.0.0.149", table.Route{}); err != nil {
		panic(err)
	}
	if err := t.ClaimAddr("10.0.0.200", table.Route{}); err != nil {
		panic(err)
	}

	for _, rng := range t.FreeRanges() {
		fmt.Println("free range", rng.String())
	}
	a, err := t.FindFree()
	if err != nil {
		panic(err)
	}
	fmt.Println("first free", a.String())
	fmt.Println("claimed", t.Count(), "free 10.0.0.64", t.IsFree("10.0.0.64"))
}

func GetLabelSelector(l map[string]string) (labels.Selector, error) {
	fullselector := labels.NewSelector()
	for k, v := range l {
		req, err := labels.NewRequirement(k, selection.Equals, []string{v})
		if err != nil {
			return nil, err
		}
		fullselector = fullselector.Add(*req)
	}
	return fullselector, nil
}
