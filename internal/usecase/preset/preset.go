package preset

import (
	"strconv"

	"github.com/simaogato/ventureflow/internal/domain"
)

// Passphrase unlocks the preset portfolio in the UI
// It is a fixed, case-sensitive string and gates nothing but the demo data.
const Passphrase = "tower2024"

// Investment defines one row of the preset portfolio
type Investment struct {
	Company  string
	Code     string
	Market   domain.Market
	Status   domain.Status
	Multiple float64
	Hold     float64
	Amount   float64
	Year     float64
}

// TowerPortfolio is the fixed sample dataset
var TowerPortfolio = []Investment{
	{Company: "Portable Breast Pump", Code: "UC184", Market: domain.MarketWomensHealth, Status: domain.StatusD, Multiple: 2.89, Hold: 3.30, Amount: 10000000, Year: 4},
	{Company: "Prevent Postpartum Hemorrhage", Code: "UC187", Market: domain.MarketWomensHealth, Status: domain.StatusC, Multiple: 7.32, Hold: 8.47, Amount: 10000000, Year: 13},
	{Company: "3D Breast CT Scanner", Code: "UC261", Market: domain.MarketWomensHealth, Status: domain.StatusC, Multiple: 3.87, Hold: 7.33, Amount: 10000000, Year: 1},
	{Company: "Automated IVF Processes", Code: "UC249", Market: domain.MarketWomensHealth, Status: domain.StatusA, Multiple: 19.92, Hold: 6.32, Amount: 5000000, Year: 2},
	{Company: "Social Care Management", Code: "UC216", Market: domain.MarketFamilyHealth, Status: domain.StatusA, Multiple: 94.95, Hold: 5.54, Amount: 5000000, Year: 2},
	{Company: "Education for Neurodivergent Children", Code: "UC194", Market: domain.MarketFamilyHealth, Status: domain.StatusA, Multiple: 20.82, Hold: 5.22, Amount: 5000000, Year: 2},
	{Company: "Breast Milk Proteins", Code: "UC230", Market: domain.MarketFamilyHealth, Status: domain.StatusB, Multiple: 2.53, Hold: 1.33, Amount: 7500000, Year: 4},
	{Company: "Tested & Safer Brain Implants", Code: "UC283", Market: domain.MarketBrainHealth, Status: domain.StatusC, Multiple: 3.25, Hold: 8.29, Amount: 10000000, Year: 1},
	{Company: "Neurological Decline Detection", Code: "UC288", Market: domain.MarketBrainHealth, Status: domain.StatusB, Multiple: 3.55, Hold: 3.50, Amount: 7500000, Year: 3},
	{Company: "Pediatric Diagnosis for ASD", Code: "UC284", Market: domain.MarketBrainHealth, Status: domain.StatusA, Multiple: 10.63, Hold: 4.00, Amount: 10000000, Year: 3},
}

// Records converts the preset into table rows
// Every call returns rows with fresh IDs, numbers rendered as the shortest text form.
func Records() []domain.InvestmentRecord {
	records := make([]domain.InvestmentRecord, 0, len(TowerPortfolio))
	for _, inv := range TowerPortfolio {
		record := domain.NewEmptyRecord()
		record.Company = inv.Company
		record.Code = inv.Code
		record.Market = inv.Market
		record.Status = inv.Status
		record.Multiple = formatNumber(inv.Multiple)
		record.Hold = formatNumber(inv.Hold)
		record.Amount = formatNumber(inv.Amount)
		record.Year = formatNumber(inv.Year)
		records = append(records, record)
	}
	return records
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
