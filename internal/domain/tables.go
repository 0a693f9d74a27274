package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	// Accounts
	&User{},
	// Store
	&Category{},
	&Product{},
	&Cart{},
	&CartLine{},
	&Address{},
	&ShippingRate{},
	&Order{},
	&OrderLine{},
	&Favorite{},
	// Marketing
	&SiteService{},
	&Certification{},
	&Testimonial{},
	&Article{},
	&Protocol{},
}
