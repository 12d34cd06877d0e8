package patterns

import (
	"strings"

	"github.com/ledgerline/underwrite/internal/model"
)

// Default tables for UK consumer banking descriptions. Keywords are stored
// uppercase; matching text is expected to be normalized first.

func defaultLibrary() *Library {
	return &Library{
		Income:           incomeTable(),
		Debt:             debtTable(),
		Essential:        essentialTable(),
		Risk:             riskTable(),
		Positive:         positiveTable(),
		TransferKeywords: transferKeywords,
		ExpenseServices:  expenseServices,
	}
}

func incomeTable() Table {
	return Table{
		Category: model.CategoryIncome,
		Entries: []Entry{
			{
				Subcategory: "salary",
				Label:       "Salary & Wages",
				Keywords: []string{
					"SALARY", "WAGES", "PAYROLL", "NET PAY", "BACS", "PAY",
					"EMPLOYERS", "EMPLOYER", "WAGE", "PAYSLIP",
					"FP-", "FASTER PAYMENT", "BGC",
				},
				RegexPatterns: []string{
					`(?i)salary|wages|payroll|net\s*pay`,
					`(?i)\b(employer|company)\s*(payment|pay)\b`,
					`(?i)bacs\s*credit`,
					`(?i)monthly\s*pay`,
					`(?i)^FP-.*`,
					`(?i)faster\s*payment`,
					`(?i)\bbgc\b`,
					`(?i)\b(ltd|plc|limited)\s*(credit|payment)`,
				},
				Weight:   1.0,
				IsStable: true,
			},
			{
				Subcategory: "benefits",
				Label:       "Benefits & Government Payments",
				Keywords: []string{
					"UNIVERSAL CREDIT", "UC", "DWP", "HMRC", "CHILD BENEFIT",
					"PIP", "DLA", "ESA", "JSA", "PENSION CREDIT", "HOUSING BENEFIT",
					"TAX CREDIT", "WORKING TAX", "CHILD TAX", "CARERS ALLOWANCE",
					"ATTENDANCE ALLOWANCE", "BEREAVEMENT", "MATERNITY ALLOWANCE",
				},
				RegexPatterns: []string{
					`(?i)universal\s*credit`,
					`(?i)\buc\b`,
					`(?i)\bdwp\b`,
					`(?i)\bhmrc\b`,
					`(?i)child\s*benefit`,
					`(?i)\bpip\b`,
					`(?i)\bdla\b`,
					`(?i)\besa\b`,
					`(?i)\bjsa\b`,
					`(?i)pension\s*credit`,
					`(?i)housing\s*benefit`,
					`(?i)tax\s*credit`,
					`(?i)carers?\s*allowance`,
				},
				Weight:   1.0,
				IsStable: true,
			},
			{
				Subcategory: "pension",
				Label:       "Pension Income",
				Keywords: []string{
					"PENSION", "ANNUITY", "STATE PENSION", "NEST", "AVIVA",
					"LEGAL AND GENERAL", "SCOTTISH WIDOWS", "STANDARD LIFE",
					"PRUDENTIAL", "ROYAL LONDON", "AEGON", "RETIREMENT",
				},
				RegexPatterns: []string{
					`(?i)\bpension\b`,
					`(?i)annuity`,
					`(?i)state\s*pension`,
					`(?i)retirement\s*(income|payment)`,
				},
				Weight:   1.0,
				IsStable: true,
			},
			{
				Subcategory: "gig_economy",
				Label:       "Gig Economy Income",
				Keywords: []string{
					"UBER", "DELIVEROO", "JUST EAT", "BOLT", "LYFT",
					"FIVERR", "UPWORK", "EBAY", "VINTED", "DEPOP",
					"TASKRABBIT", "FREELANCER", "ETSY", "AMAZON FLEX",
				},
				RegexPatterns: []string{
					`(?i)\buber\b`,
					`(?i)deliveroo`,
					`(?i)just\s*eat`,
					`(?i)\bbolt\b`,
					`(?i)\blyft\b`,
					`(?i)fiverr`,
					`(?i)upwork`,
					`(?i)\bebay\b`,
					`(?i)vinted`,
					`(?i)depop`,
				},
				// Gig income is discounted in effective-income sums.
				Weight:   0.7,
				IsStable: false,
			},
			{
				Subcategory: "loans",
				Label:       "Loan Payments/Disbursements",
				Keywords: []string{
					"LOAN PAYMENT", "LOAN REPAYMENT", "LOAN DISBURSEMENT",
					"PERSONAL LOAN", "UNSECURED LOAN", "GUARANTOR LOAN",
					"LENDABLE", "ZOPA", "TOTALSA", "AQUA",
					"VISA DIRECT PAYMENT", "LOAN REVERSAL", "LOAN REFUND",
				},
				RegexPatterns: []string{
					`(?i)loan\s*(payment|repayment|disbursement)`,
					`(?i)personal\s*loan`,
					`(?i)unsecured\s*loan`,
					`(?i)guarantor\s*loan`,
					`(?i)mr\s*lender`,
					`(?i)lendable`,
					`(?i)\bzopa\b`,
					`(?i)totalsa`,
					`(?i)\baqua\b`,
					`(?i)visa\s*direct\s*payment`,
					`(?i)(loan|loans)\s*(reversal|refund)`,
					`(?i)reversal\s*of.*\bloan`,
				},
				// Disbursements are visible but never counted as income.
				Weight:   0.0,
				IsStable: false,
			},
			{
				Subcategory: "refund",
				Label:       "Refunds & Returns",
				Keywords: []string{
					"REFUND", "REFUNDED", "REIMBURSEMENT",
					"CASHBACK", "CREDIT ADJUSTMENT",
				},
				RegexPatterns: []string{
					`(?i)\brefund(ed)?\b`,
					`(?i)reimbursement`,
					`(?i)cash\s*back`,
				},
				Weight:   1.0,
				IsStable: false,
			},
		},
	}
}

func debtTable() Table {
	return Table{
		Category: model.CategoryDebt,
		Entries: []Entry{
			{
				Subcategory: "hcstc_payday",
				Label:       "HCSTC/Payday Lenders",
				Keywords: []string{
					"LENDING STREAM", "DRAFTY", "MR LENDER", "MONEYBOAT",
					"CREDITSPRING", "CASHFLOAT", "QUIDMARKET", "LOANS 2 GO",
					"CASHASAP", "POLAR CREDIT", "118 118 MONEY", "THE MONEY PLATFORM",
					"FAST LOAN UK", "CONDUIT", "SALAD MONEY", "FAIR FINANCE",
				},
				RegexPatterns: []string{
					`(?i)lending\s*stream`,
					`(?i)drafty`,
					`(?i)mr\s*lender`,
					`(?i)moneyboat`,
					`(?i)creditspring`,
					`(?i)cashfloat`,
					`(?i)quidmarket`,
					`(?i)loans\s*2\s*go`,
					`(?i)cashasap`,
					`(?i)polar\s*credit`,
					`(?i)118\s*118\s*money`,
					`(?i)the\s*money\s*platform`,
					`(?i)fast\s*loan\s*uk`,
					`(?i)conduit`,
					`(?i)salad\s*money`,
					`(?i)fair\s*finance`,
				},
				RiskLevel: model.RiskVeryHigh,
				Weight:    1.0,
			},
			{
				Subcategory: "other_loans",
				Label:       "Other Loans",
				Keywords: []string{
					"LOAN", "FINANCE", "HP", "CAR FINANCE", "ZOPA", "NOVUNA",
					"FINIO LOANS", "EVLO", "EVERYDAY LOANS", "BAMBOO", "LIVELEND",
					"PERSONAL LOAN", "AUTO FINANCE", "VEHICLE FINANCE",
				},
				RegexPatterns: []string{
					`(?i)\bloan\s*(repayment|payment)?\b`,
					`(?i)finance\s*(payment|agreement)?`,
					`(?i)\bhp\s*(payment|repayment)?\b`,
					`(?i)car\s*finance`,
					`(?i)\bzopa\b`,
					`(?i)novuna`,
					`(?i)finio\s*loans?`,
					`(?i)\bevlo\b`,
					`(?i)everyday\s*loans?`,
					`(?i)bamboo`,
					`(?i)livelend`,
				},
				RiskLevel: model.RiskMedium,
				Weight:    1.0,
			},
			{
				Subcategory: "credit_cards",
				Label:       "Credit Cards",
				Keywords: []string{
					"VANQUIS", "AQUA", "CAPITAL ONE", "MARBLES", "ZABLE",
					"TYMIT", "118 118 MONEY CARD", "FLUID CARD", "CHROME CARD",
					"BARCLAYCARD", "AMEX", "MBNA", "NEWDAY", "VIRGIN MONEY",
					"SAINSBURYS BANK", "TESCO BANK", "M&S BANK", "HALIFAX",
					"LLOYDS", "HSBC", "NATIONWIDE", "NATWEST", "MONZO", "STARLING",
				},
				RegexPatterns: []string{
					`(?i)vanquis`,
					`(?i)\baqua\b`,
					`(?i)capital\s*one`,
					`(?i)marbles`,
					`(?i)zable`,
					`(?i)tymit`,
					`(?i)118\s*118\s*money\s*card`,
					`(?i)fluid\s*(card|credit|payment)`,
					`(?i)chrome\s*(card|credit|payment)`,
					`(?i)barclaycard`,
					`(?i)\bamex\b`,
					`(?i)american\s*express`,
					`(?i)\bmbna\b`,
					`(?i)newday`,
					`(?i)credit\s*card\s*(payment|minimum|balance)`,
				},
				RiskLevel: model.RiskLow,
				Weight:    1.0,
			},
			{
				Subcategory: "bnpl",
				Label:       "Buy Now Pay Later",
				Keywords: []string{
					"KLARNA", "CLEARPAY", "ZILCH", "MONZO FLEX",
					"PAYPAL PAY IN 3", "RIVERTY", "PAYL8R",
				},
				RegexPatterns: []string{
					`(?i)klarna`,
					`(?i)clearpay`,
					`(?i)zilch`,
					`(?i)monzo\s*flex`,
					`(?i)paypal\s*pay\s*in\s*3`,
					`(?i)riverty`,
					`(?i)payl8r`,
				},
				RiskLevel: model.RiskMedium,
				Weight:    1.0,
			},
			{
				Subcategory: "catalogue",
				Label:       "Catalogue Credit",
				Keywords: []string{
					"LITTLEWOODS", "JD WILLIAMS", "FREEMANS",
					"GRATTAN", "SIMPLY BE", "JACAMO", "AMBROSE WILSON", "FASHION WORLD",
					"CATALOGUE PAYMENT", "CATALOG PAYMENT",
				},
				RegexPatterns: []string{
					`(?i)\bvery\s*(catalogue|account|payment)\b`,
					`(?i)littlewoods`,
					`(?i)\bstudio\s*(catalogue|account|payment)\b`,
					`(?i)jd\s*williams`,
					`(?i)freemans`,
					`(?i)grattan`,
					`(?i)(marks\s*(&|and)?\s*spencer|m&s)\s*(catalogue|catalog)`,
					`(?i)catalogue\s*(payment|account|credit)`,
					`(?i)catalog\s*(payment|account|credit)`,
				},
				RiskLevel: model.RiskMedium,
				Weight:    1.0,
			},
		},
	}
}

func essentialTable() Table {
	return Table{
		Category: model.CategoryEssential,
		Entries: []Entry{
			{
				Subcategory: "rent",
				Label:       "Rent",
				Keywords: []string{
					"RENT", "LANDLORD", "LETTING", "TENANCY", "HOUSING ASSOCIATION",
					"COUNCIL RENT", "HA RENT", "PROPERTY RENT",
				},
				RegexPatterns: []string{
					`(?i)\brent\b`,
					`(?i)landlord`,
					`(?i)letting\s*(agent|agency)?`,
					`(?i)tenancy`,
					`(?i)housing\s*association`,
				},
				IsHousing: true,
				Weight:    1.0,
			},
			{
				Subcategory: "mortgage",
				Label:       "Mortgage",
				Keywords: []string{
					"MORTGAGE", "HOME LOAN", "SKIPTON", "LEEDS BUILDING SOCIETY",
					"YORKSHIRE BUILDING SOCIETY", "COVENTRY BUILDING SOCIETY",
				},
				RegexPatterns: []string{
					`(?i)mortgage`,
					`(?i)home\s*loan`,
					`(?i)building\s*society\s*(mortgage)?`,
				},
				IsHousing: true,
				Weight:    1.0,
			},
			{
				Subcategory: "council_tax",
				Label:       "Council Tax",
				Keywords: []string{
					"COUNCIL TAX", "LOCAL AUTHORITY", "BOROUGH COUNCIL",
					"CITY COUNCIL", "DISTRICT COUNCIL", "COUNTY COUNCIL",
				},
				RegexPatterns: []string{
					`(?i)council\s*tax`,
					`(?i)(borough|city|district|county)\s*council`,
					`(?i)local\s*authority`,
				},
				Weight: 1.0,
			},
			{
				Subcategory: "utilities",
				Label:       "Utilities",
				Keywords: []string{
					"BRITISH GAS", "EDF", "EON", "SSE", "OCTOPUS", "BULB",
					"SCOTTISH POWER", "THAMES WATER", "SEVERN TRENT", "ANGLIAN WATER",
					"UNITED UTILITIES", "SOUTHERN WATER", "YORKSHIRE WATER",
					"ELECTRICITY", "ENERGY",
				},
				RegexPatterns: []string{
					`(?i)british\s*gas`,
					`(?i)\bedf\b`,
					`(?i)\beon\b`,
					`(?i)\bsse\b`,
					`(?i)octopus\s*(energy)?`,
					`(?i)\bbulb\b`,
					`(?i)scottish\s*power`,
					`(?i)thames\s*water`,
					`(?i)severn\s*trent`,
					`(?i)(electricity|gas|water)\s*(bill|payment)`,
				},
				Weight: 1.0,
			},
			{
				Subcategory: "communications",
				Label:       "Communications",
				Keywords: []string{
					"SKY", "VIRGIN MEDIA", "VODAFONE", "TV LICENCE",
					"PLUSNET", "TALKTALK", "NOW TV",
				},
				RegexPatterns: []string{
					`(?i)\bbt\s*(broadband|phone|bill)\b`,
					`(?i)\bsky\s*(tv|broadband|bill)?\b`,
					`(?i)virgin\s*media`,
					`(?i)vodafone`,
					`(?i)\bee\b`,
					`(?i)\bo2\b`,
					`(?i)\bthree\b`,
					`(?i)tv\s*lic(e|en)(s|c)e`,
					`(?i)mobile\s*(phone|contract|bill)`,
				},
				Weight: 1.0,
			},
			{
				Subcategory: "insurance",
				Label:       "Insurance",
				Keywords: []string{
					"INSURANCE", "DIRECT LINE", "ADMIRAL", "RAC",
					"CHURCHILL", "HASTINGS", "MORE THAN", "SWINTON", "ESURE",
				},
				RegexPatterns: []string{
					`(?i)insurance\s*(premium|payment)?`,
					`(?i)direct\s*line`,
					`(?i)admiral`,
					`(?i)\baa\s*(insurance|breakdown)\b`,
					`(?i)\brac\b`,
					`(?i)churchill`,
					`(?i)car\s*insurance`,
					`(?i)home\s*insurance`,
					`(?i)life\s*insurance`,
				},
				Weight: 1.0,
			},
			{
				Subcategory: "transport",
				Label:       "Transport",
				Keywords: []string{
					"SHELL", "ESSO", "TEXACO", "FUEL", "PETROL", "DIESEL",
					"TFL", "OYSTER", "NATIONAL RAIL", "TRAINLINE", "RAILCARD",
					"BUS PASS", "PARKING", "CONGESTION",
				},
				RegexPatterns: []string{
					`(?i)\bshell\b`,
					`(?i)\bbp\b`,
					`(?i)\besso\b`,
					`(?i)texaco`,
					`(?i)\bfuel\b`,
					`(?i)petrol`,
					`(?i)\btfl\b`,
					`(?i)oyster`,
					`(?i)national\s*rail`,
					`(?i)trainline`,
					`(?i)parking`,
					`(?i)congestion\s*charge`,
				},
				Weight: 1.0,
			},
			{
				Subcategory: "groceries",
				Label:       "Groceries",
				Keywords: []string{
					"TESCO", "SAINSBURY", "ASDA", "MORRISONS", "ALDI", "LIDL",
					"WAITROSE", "M&S FOOD", "MARKS SPENCER", "CO-OP", "COOP",
					"ICELAND", "FARMFOODS", "OCADO", "AMAZON FRESH",
				},
				RegexPatterns: []string{
					`(?i)tesco`,
					`(?i)sainsbury`,
					`(?i)\basda\b`,
					`(?i)morrisons`,
					`(?i)\baldi\b`,
					`(?i)\blidl\b`,
					`(?i)waitrose`,
					`(?i)marks\s*(and|&)?\s*spencer`,
					`(?i)co-?op`,
					`(?i)iceland`,
					`(?i)ocado`,
				},
				Weight: 1.0,
			},
			{
				Subcategory: "childcare",
				Label:       "Childcare",
				Keywords: []string{
					"NURSERY", "CHILDCARE", "CHILDMINDER", "CRECHE", "PRESCHOOL",
					"AFTER SCHOOL", "BREAKFAST CLUB", "HOLIDAY CLUB", "NANNY",
				},
				RegexPatterns: []string{
					`(?i)nursery`,
					`(?i)childcare`,
					`(?i)childminder`,
					`(?i)creche`,
					`(?i)pre-?school`,
					`(?i)after\s*school`,
				},
				Weight: 1.0,
			},
		},
	}
}

func riskTable() Table {
	return Table{
		Category: model.CategoryRisk,
		Entries: []Entry{
			{
				Subcategory: "gambling",
				Label:       "Gambling",
				Keywords: []string{
					"BET365", "BETFAIR", "WILLIAM HILL", "LADBROKES", "CORAL",
					"PADDY POWER", "BETFRED", "888", "POKERSTARS", "NATIONAL LOTTERY",
					"GROSVENOR CASINO", "TOMBOLA", "SKYBET", "UNIBET", "BWIN",
					"BETWAY", "FANDUEL", "DRAFTKINGS", "CASUMO", "CASINO",
					"BINGO", "SLOTS", "POKER", "GAMBLING", "BETTING",
				},
				RegexPatterns: []string{
					`(?i)bet365`,
					`(?i)betfair`,
					`(?i)william\s*hill`,
					`(?i)ladbrokes`,
					`(?i)\bcoral\b`,
					`(?i)paddy\s*power`,
					`(?i)betfred`,
					`(?i)\b888\b`,
					`(?i)pokerstars`,
					`(?i)national\s*lottery`,
					`(?i)lotto`,
					`(?i)grosvenor`,
					`(?i)tombola`,
					`(?i)skybet`,
					`(?i)unibet`,
					`(?i)betway`,
					`(?i)casino`,
					`(?i)\bbingo\b`,
					`(?i)gambling`,
					`(?i)betting`,
				},
				RiskLevel: model.RiskCritical,
				Weight:    1.0,
			},
			{
				Subcategory: "bank_charges",
				Label:       "Bank charges for unpaid/returned items",
				Keywords: []string{
					"UNPAID ITEM CHARGE", "UNPAID TRANSACTION FEE", "RETURNED ITEM FEE",
					"RETURNED DD FEE", "UNPAID DD CHARGE", "UNPAID SO CHARGE",
					"BOUNCE FEE", "RETURNED PAYMENT FEE",
					"INSUFFICIENT FUNDS FEE", "NSF FEE", "OVERDRAFT FEE", "PENALTY CHARGE",
					"UNPAID CHARGE", "RETURNED FEE", "ITEM FEE",
				},
				RegexPatterns: []string{
					`(?i)\b(unpaid|returned|bounced|failed|dishono(u)?red)\b.*\b(charge|fee)\b`,
					`(?i)\b(charge|fee)\b.*\b(unpaid|returned|bounced|failed|nsf|insufficient|dishono(u)?red)\b`,
					`(?i)\boverdraft\b.*\b(charge|fee)\b`,
					`(?i)\bnsf\b.*\b(charge|fee)\b`,
					`(?i)\binsufficient\s*funds\b.*\b(charge|fee)\b`,
					`(?i)\bcredit\s*(reversal|adjustment)\b`,
				},
				RiskLevel: model.RiskHigh,
				Weight:    1.0,
			},
			{
				Subcategory: "failed_payments",
				Label:       "Failed payment events",
				Keywords: []string{
					"UNPAID DIRECT DEBIT", "UNPAID DD", "DD UNPAID",
					"RETURNED DIRECT DEBIT", "RETURNED DD", "DD RETURNED",
					"BOUNCED PAYMENT", "BOUNCED DD", "BOUNCED DIRECT DEBIT",
					"PAYMENT RETURNED", "PAYMENT BOUNCED", "PAYMENT FAILED",
					"FAILED DIRECT DEBIT", "FAILED DD", "DD FAILED",
					"DISHONOURED DD", "DISHONOURED DIRECT DEBIT", "DISHONOURED PAYMENT",
					"INSUFFICIENT FUNDS DD",
					"DD RETURN", "DIRECT DEBIT RETURN", "RETURNED PAYMENT",
				},
				RegexPatterns: []string{
					`(?i)\b(unpaid|returned|bounced|failed|dishono(u)?red)\b\s+(direct\s*debit|dd|payment)\b`,
					`(?i)\b(direct\s*debit|dd|payment)\b\s+\b(unpaid|returned|bounced|failed|dishono(u)?red)\b`,
					`(?i)\binsufficient\s*funds?\b\s+(direct\s*debit|dd)\b`,
					`(?i)\bdd\b\s+\b(return(ed)?|unpaid|bounced|failed)\b`,
				},
				RiskLevel: model.RiskCritical,
				Weight:    1.0,
			},
			{
				Subcategory: "debt_collection",
				Label:       "Debt Collection",
				Keywords: []string{
					"DEBT COLLECTION", "DCA", "LOWELL", "CABOT", "INTRUM",
					"HOIST", "PAST DUE CREDIT", "ARROW GLOBAL", "LINK FINANCIAL",
					"MOORCROFT", "CAPQUEST", "MACKENZIE HALL", "BW LEGAL",
					"CREDIT SOLUTIONS", "DEBT RECOVERY", "COLLECTIONS",
				},
				RegexPatterns: []string{
					`(?i)debt\s*collect(ion|or)?`,
					`(?i)\bdca\b`,
					`(?i)lowell`,
					`(?i)\bcabot\b`,
					`(?i)intrum`,
					`(?i)\bhoist\b`,
					`(?i)past\s*due\s*credit`,
					`(?i)arrow\s*global`,
					`(?i)link\s*financial`,
					`(?i)moorcroft`,
					`(?i)capquest`,
					`(?i)debt\s*recovery`,
					`(?i)collections?\s*(agency|agent)?`,
				},
				RiskLevel: model.RiskVeryHigh,
				Weight:    1.0,
			},
		},
	}
}

func positiveTable() Table {
	return Table{
		Category: model.CategoryPositive,
		Entries: []Entry{
			{
				Subcategory: "savings",
				Label:       "Savings Activity",
				Keywords: []string{
					"SAVINGS", "ISA", "INVESTMENT", "MONEYBOX", "PLUM", "CHIP",
					"NUTMEG", "VANGUARD", "FIDELITY", "HARGREAVES", "AJ BELL",
					"PREMIUM BONDS", "NS&I",
				},
				RegexPatterns: []string{
					`(?i)\bsavings\b`,
					`(?i)\bisa\b`,
					`(?i)investment`,
					`(?i)moneybox`,
					`(?i)\bplum\b`,
					`(?i)\bchip\b`,
					`(?i)nutmeg`,
					`(?i)vanguard`,
					`(?i)premium\s*bonds?`,
					`(?i)ns&?i`,
				},
				Weight: 1.0,
			},
		},
	}
}

// Internal transfer vocabulary. Matches are account movements, not income.
var transferKeywords = []string{
	"OWN ACCOUNT", "INTERNAL TRANSFER", "FROM SAVINGS", "FROM CURRENT",
	"SELF TRANSFER", "MOVED FROM", "MOVED TO", "BETWEEN ACCOUNTS",
	"INTERNAL TFR",
}

var transferRegexPatterns = []string{
	`(?i)own\s*account`,
	`(?i)internal\s*(transfer|tfr)`,
	`(?i)from\s*(savings|current)`,
	`(?i)between\s*accounts`,
	`(?i)self\s*transfer`,
	`(?i)(moved|move)\s*(from|to)\s*(savings|current)`,
}

// Known expense services: payment processors, BNPL providers and lenders
// whose names carry "PAY"-like tokens but whose credits are never wages.
var expenseServices = []string{
	"PAYPAL", "STRIPE", "SQUARE", "WORLDPAY", "SAGEPAY",
	"CLEARPAY", "KLARNA", "ZILCH", "LAYBUY", "MONZO FLEX",
	"LENDING STREAM", "LENDINGSTREAM", "MONEYBOAT", "DRAFTY",
	"CASHFLOAT", "QUIDMARKET", "MR LENDER", "MRLENDER",
	"SAVVY LOAN PRODUCTS LIMITED", "LIKELY LOANS",
	"LENDABLE", "ZOPA", "TOTALSA", "AQUA", "HSBC LOANS",
	"VISA DIRECT PAYMENT", "BARCLAYS CASHBACK",
	"BAMBOO", "BAMBOO LTD",
	"FERNOVO", "OAKBROOK", "OAKBROOK FINANCE", "OAKBROOK FINANCE LIMITED",
	"CREDIT UNION", "CREDIT UNION PAYMENT",
}

func containsKeyword(text, keyword string) bool {
	return strings.Contains(text, keyword)
}
