package registry

import "time"

// Multi-series sources default to 2010-01-01 unless the dataset says
// otherwise.
var defaultStart = time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)

// Default builds the built-in dataset catalog. Series codes follow the
// central bank's SGS numbering; tickers are B3 listed real-estate
// companies.
func Default() *Registry {
	return New(
		&Dataset{
			Name:         "bcb-realestate",
			Description:  "Central bank real-estate series: credit stocks, financing flows and collateral price indices",
			Adapter:      "bcb",
			DefaultStart: defaultStart,
			Cache:        CacheEntry{Name: "bcb-realestate", Format: FormatCSV, Object: "bcb-realestate.csv"},
			Items: []Item{
				{ID: "20905", Name: "Real estate credit outstanding", Unit: "BRL million", Category: "credit", Source: "BCB"},
				{ID: "20911", Name: "Real estate credit to households", Unit: "BRL million", Category: "credit", Source: "BCB"},
				{ID: "24371", Name: "New real estate financing operations", Unit: "BRL million", Category: "credit", Source: "BCB"},
				{ID: "21340", Name: "Residential real estate collateral value index (IVG-R)", Unit: "index", Category: "price", Source: "BCB"},
				{ID: "28655", Name: "Real estate financing average rate", Unit: "% p.a.", Category: "credit", Source: "BCB"},
				{ID: "21864", Name: "Construction activity indicator", Unit: "index", Category: "production", Source: "BCB"},
			},
		},
		&Dataset{
			Name:         "b3-stocks",
			Description:  "Listed real-estate company quotes",
			Adapter:      "stocks",
			DefaultStart: defaultStart,
			Cache:        CacheEntry{Name: "b3-stocks", Format: FormatParquet, Object: "b3-stocks.parquet"},
			Items: []Item{
				{ID: "CYRE3", Name: "Cyrela Brazil Realty", Unit: "BRL", Category: "stock", Source: "B3"},
				{ID: "MRVE3", Name: "MRV Engenharia", Unit: "BRL", Category: "stock", Source: "B3"},
				{ID: "EZTC3", Name: "EZTEC", Unit: "BRL", Category: "stock", Source: "B3"},
				{ID: "EVEN3", Name: "Even Construtora", Unit: "BRL", Category: "stock", Source: "B3"},
				{ID: "DIRR3", Name: "Direcional Engenharia", Unit: "BRL", Category: "stock", Source: "B3"},
				{ID: "TRIS3", Name: "Trisul", Unit: "BRL", Category: "stock", Source: "B3"},
				{ID: "MULT3", Name: "Multiplan", Unit: "BRL", Category: "malls", Source: "B3"},
				{ID: "IGTI11", Name: "Iguatemi", Unit: "BRL", Category: "malls", Source: "B3"},
			},
		},
		&Dataset{
			Name:         "fipezap",
			Description:  "FipeZap listing price indices",
			Adapter:      "portal",
			DefaultStart: defaultStart,
			Cache:        CacheEntry{Name: "fipezap", Format: FormatCSV, Object: "fipezap.csv"},
			Items: []Item{
				{ID: "fipezap-sale-residential", Name: "Residential sale price index", Unit: "index", Category: "price", Source: "FipeZap"},
				{ID: "fipezap-rent-residential", Name: "Residential rent price index", Unit: "index", Category: "price", Source: "FipeZap"},
				{ID: "fipezap-sale-commercial", Name: "Commercial sale price index", Unit: "index", Category: "price", Source: "FipeZap"},
				{ID: "fipezap-rent-commercial", Name: "Commercial rent price index", Unit: "index", Category: "price", Source: "FipeZap"},
			},
		},
		&Dataset{
			Name:         "property-tax",
			Description:  "Municipal transfer-tax (ITBI) monthly summaries",
			Adapter:      "portal",
			DefaultStart: defaultStart,
			Cache:        CacheEntry{Name: "property-tax", Format: FormatCSV, Object: "property-tax.csv"},
			Items: []Item{
				{ID: "itbi-sao-paulo", Name: "ITBI collections, Sao Paulo", Unit: "BRL thousand", Category: "tax", Source: "Prefeitura SP"},
				{ID: "itbi-belo-horizonte", Name: "ITBI collections, Belo Horizonte", Unit: "BRL thousand", Category: "tax", Source: "Prefeitura BH"},
				{ID: "itbi-curitiba", Name: "ITBI collections, Curitiba", Unit: "BRL thousand", Category: "tax", Source: "Prefeitura Curitiba"},
			},
		},
	)
}
