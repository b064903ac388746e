package dto

// RunResponse is the JSON body returned by GET /.
//
// Both fields are human-readable status strings. "-" means the step did not run.
type RunResponse struct {
	AccessStockData string `json:"accessStockData" example:"OK"`
	LoadDataToBQ    string `json:"loadDataToBQ" example:"Successfully load data to BigQuery."`
}
