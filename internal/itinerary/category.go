package itinerary

import "strings"

type categoryAlias struct {
	alias    string
	category Category
}

// categoryAliases is ordered: the first alias contained in an unknown label
// decides its category.
var categoryAliases = []categoryAlias{
	{"交通", CategoryTransportation},
	{"出行", CategoryTransportation},
	{"乘车", CategoryTransportation},
	{"高铁", CategoryTransportation},
	{"火车", CategoryTransportation},
	{"动车", CategoryTransportation},
	{"航班", CategoryTransportation},
	{"飞机", CategoryTransportation},
	{"机场", CategoryTransportation},
	{"车站", CategoryTransportation},
	{"地铁", CategoryTransportation},
	{"公交", CategoryTransportation},
	{"打车", CategoryTransportation},
	{"自驾", CategoryTransportation},
	{"接驳", CategoryTransportation},
	{"transport", CategoryTransportation},
	{"flight", CategoryTransportation},
	{"train", CategoryTransportation},

	{"住宿", CategoryAccommodation},
	{"酒店", CategoryAccommodation},
	{"入住", CategoryAccommodation},
	{"民宿", CategoryAccommodation},
	{"宾馆", CategoryAccommodation},
	{"客栈", CategoryAccommodation},
	{"退房", CategoryAccommodation},
	{"hotel", CategoryAccommodation},
	{"lodging", CategoryAccommodation},

	{"餐饮", CategoryDining},
	{"美食", CategoryDining},
	{"用餐", CategoryDining},
	{"早餐", CategoryDining},
	{"午餐", CategoryDining},
	{"晚餐", CategoryDining},
	{"夜宵", CategoryDining},
	{"小吃", CategoryDining},
	{"餐厅", CategoryDining},
	{"吃饭", CategoryDining},
	{"下午茶", CategoryDining},
	{"food", CategoryDining},
	{"restaurant", CategoryDining},
	{"meal", CategoryDining},

	{"景点", CategorySightseeing},
	{"观光", CategorySightseeing},
	{"游览", CategorySightseeing},
	{"参观", CategorySightseeing},
	{"景区", CategorySightseeing},
	{"博物馆", CategorySightseeing},
	{"公园", CategorySightseeing},
	{"古镇", CategorySightseeing},
	{"打卡", CategorySightseeing},
	{"徒步", CategorySightseeing},
	{"attraction", CategorySightseeing},
	{"sight", CategorySightseeing},
	{"tour", CategorySightseeing},

	{"购物", CategoryShopping},
	{"商场", CategoryShopping},
	{"逛街", CategoryShopping},
	{"特产", CategoryShopping},
	{"市集", CategoryShopping},
	{"免税", CategoryShopping},
	{"shop", CategoryShopping},

	{"其他", CategoryOther},
	{"休闲", CategoryOther},
	{"自由活动", CategoryOther},
}

// ParseCategory maps any value onto the closed category set. It tries an
// exact enum match, then an exact alias, then alias containment, and
// otherwise returns CategoryOther.
func ParseCategory(v any) Category {
	s, ok := v.(string)
	if !ok {
		return CategoryOther
	}
	label := strings.ToLower(strings.TrimSpace(fold(s)))
	if label == "" {
		return CategoryOther
	}

	for _, c := range Categories {
		if label == string(c) {
			return c
		}
	}
	for _, a := range categoryAliases {
		if label == a.alias {
			return a.category
		}
	}
	for _, a := range categoryAliases {
		if strings.Contains(label, a.alias) {
			return a.category
		}
	}
	return CategoryOther
}
