package tally

const (
	reportCompanyInfo  = "Company Info"
	reportStockSummary = "Stock Summary"
)

const companyInfoRequest = `<ENVELOPE>
	<HEADER>
		<TALLYREQUEST>Export Data</TALLYREQUEST>
	</HEADER>
	<BODY>
		<EXPORTDATA>
			<REQUESTDESC>
				<REPORTNAME>` + reportCompanyInfo + `</REPORTNAME>
			</REQUESTDESC>
		</EXPORTDATA>
	</BODY>
</ENVELOPE>`

const stockSummaryRequest = `<ENVELOPE>
	<HEADER>
		<TALLYREQUEST>Export Data</TALLYREQUEST>
	</HEADER>
	<BODY>
		<EXPORTDATA>
			<REQUESTDESC>
				<REPORTNAME>` + reportStockSummary + `</REPORTNAME>
				<STATICVARIABLES>
					<SVEXPORTFORMAT>$$SysName:XML</SVEXPORTFORMAT>
					<EXPLODEFLAG>Yes</EXPLODEFLAG>
				</STATICVARIABLES>
			</REQUESTDESC>
		</EXPORTDATA>
	</BODY>
</ENVELOPE>`

// CompanyInfoRequest returns the export envelope used to probe connectivity.
func CompanyInfoRequest() string {
	return companyInfoRequest
}

// StockSummaryRequest returns the export envelope asking for the exploded Stock Summary report in XML.
func StockSummaryRequest() string {
	return stockSummaryRequest
}
