package view

import (
	"sort"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/value"
)

// ItemFrequency is the total quantity of one item sold across the visited bills.
type ItemFrequency struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// SalesStatistics is a snapshot of a StatisticsVisitor.
type SalesStatistics struct {
	BillCount     int             `json:"bill_count"`
	TotalRevenue  value.Money     `json:"total_revenue"`
	TotalDiscount value.Money     `json:"total_discount"`
	ItemsSold     int             `json:"items_sold"`
	Items         []ItemFrequency `json:"items"`
	MostPopular   *ItemFrequency  `json:"most_popular,omitempty"`
}

// StatisticsVisitor aggregates sales over every bill it visits, so one
// instance can summarise a whole day.
type StatisticsVisitor struct {
	billCount     int
	totalRevenue  value.Money
	totalDiscount value.Money
	quantities    map[string]int
	names         map[string]string
}

func NewStatisticsVisitor() *StatisticsVisitor {
	return &StatisticsVisitor{
		totalRevenue:  value.Zero,
		totalDiscount: value.Zero,
		quantities:    make(map[string]int),
		names:         make(map[string]string),
	}
}

func (v *StatisticsVisitor) VisitBill(bill BillView) {
	v.billCount++
	v.totalRevenue = v.totalRevenue.Add(bill.FinalAmount())
	v.totalDiscount = v.totalDiscount.Add(bill.Discount())
	bill.EachItem(func(it entity.BillItem) {
		code := it.Code().String()
		v.quantities[code] += it.Quantity().Value()
		v.names[code] = it.Name()
	})
}

func (v *StatisticsVisitor) BillCount() int             { return v.billCount }
func (v *StatisticsVisitor) TotalRevenue() value.Money  { return v.totalRevenue }
func (v *StatisticsVisitor) TotalDiscount() value.Money { return v.totalDiscount }

// Frequency returns the quantity sold of code.
func (v *StatisticsVisitor) Frequency(code value.ItemCode) int {
	return v.quantities[code.String()]
}

// Frequencies lists items by quantity sold, highest first. Ties sort by code.
func (v *StatisticsVisitor) Frequencies() []ItemFrequency {
	out := make([]ItemFrequency, 0, len(v.quantities))
	for code, qty := range v.quantities {
		out = append(out, ItemFrequency{Code: code, Name: v.names[code], Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// MostPopular is the item with the highest total quantity. ok is false before any sale.
func (v *StatisticsVisitor) MostPopular() (ItemFrequency, bool) {
	freq := v.Frequencies()
	if len(freq) == 0 {
		return ItemFrequency{}, false
	}
	return freq[0], true
}

// Statistics snapshots the accumulated totals.
func (v *StatisticsVisitor) Statistics() SalesStatistics {
	s := SalesStatistics{
		BillCount:     v.billCount,
		TotalRevenue:  v.totalRevenue,
		TotalDiscount: v.totalDiscount,
		Items:         v.Frequencies(),
	}
	for _, f := range s.Items {
		s.ItemsSold += f.Quantity
	}
	if len(s.Items) > 0 {
		top := s.Items[0]
		s.MostPopular = &top
	}
	return s
}
