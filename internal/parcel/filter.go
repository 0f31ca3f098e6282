package parcel

import "strings"

// Filter：列表筛选条件，取值为某个状态或哨兵值 FilterAll
type Filter string

const FilterAll Filter = "todos"

// Filters：界面循环切换顺序
var Filters = []Filter{FilterAll, Filter(Available), Filter(Reserved), Filter(Sold)}

// ParseFilter：解析筛选文本，接受 todos/all 与状态名
func ParseFilter(s string) (Filter, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "todos", "all":
		return FilterAll, true
	}
	st, ok := ParseStatus(s)
	if !ok {
		return "", false
	}
	return Filter(st), true
}

func (f Filter) Match(s Status) bool {
	return f == FilterAll || f == "" || Status(f) == s
}

// Next：循环切换到下一个筛选条件
func (f Filter) Next() Filter {
	for i, x := range Filters {
		if x == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}
