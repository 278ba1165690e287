package tally

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestEnvelope struct {
	XMLName      xml.Name `xml:"ENVELOPE"`
	TallyRequest string   `xml:"HEADER>TALLYREQUEST"`
	ReportName   string   `xml:"BODY>EXPORTDATA>REQUESTDESC>REPORTNAME"`
	ExportFormat string   `xml:"BODY>EXPORTDATA>REQUESTDESC>STATICVARIABLES>SVEXPORTFORMAT"`
	ExplodeFlag  string   `xml:"BODY>EXPORTDATA>REQUESTDESC>STATICVARIABLES>EXPLODEFLAG"`
}

func TestCompanyInfoRequest(t *testing.T) {
	var env requestEnvelope
	require.NoError(t, xml.Unmarshal([]byte(CompanyInfoRequest()), &env))

	assert.Equal(t, "Export Data", env.TallyRequest)
	assert.Equal(t, "Company Info", env.ReportName)
	assert.Empty(t, env.ExportFormat)
	assert.Empty(t, env.ExplodeFlag)
}

func TestStockSummaryRequest(t *testing.T) {
	var env requestEnvelope
	require.NoError(t, xml.Unmarshal([]byte(StockSummaryRequest()), &env))

	assert.Equal(t, "Export Data", env.TallyRequest)
	assert.Equal(t, "Stock Summary", env.ReportName)
	assert.Equal(t, "$$SysName:XML", env.ExportFormat)
	assert.Equal(t, "Yes", env.ExplodeFlag)
	assert.Equal(t, StockSummaryRequest(), StockSummaryRequest())
}
