package classifier

// CatchAllCategory is assigned when no category keyword matches.
const CatchAllCategory = "기타"

// Category is a named topical bucket and the keywords that define it.
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Tables groups every keyword list the engine reads. A Tables value is built once
// and shared read-only across goroutines; no method mutates it.
type Tables struct {
	SearchKeywords   []string
	IdentityTerms    []string
	NativeNames      []string
	ExclusionPhrases []string
	ContextTerms     []string
	Categories       []Category
	CatchAll         string
	NegativeTerms    []string
	PositiveTerms    []string
	ResponseTerms    []string
	HighRiskTerms    []string
	MediumRiskTerms  []string
}

// DefaultSearchKeywords are the general search terms for the monitored organization.
var DefaultSearchKeywords = []string{"해시드", "Hashed", "해시드 벤처스", "주식회사 해시드", "김서준"}

// DefaultTables returns fresh copies of the built-in tables.
func DefaultTables() Tables {
	return Tables{
		SearchKeywords: clone(DefaultSearchKeywords),
		IdentityTerms: []string{
			"해시드", "해시드 벤처스", "주식회사 해시드", "해시드 대표", "해시드 파트너",
			"김서준", "김서준 대표",
			"hashed ventures", "hashed open parliament", "hashed emergent", "hashed ceo", "simon kim",
		},
		NativeNames: []string{"해시드"},
		ExclusionPhrases: []string{
			"hashed password", "hash password", "hashed value", "hash value",
			"hash function", "hash table", "hash map", "hashmap",
			"hash algorithm", "hashed algorithm", "hashing algorithm",
			"are hashed", "is hashed", "hashed and salted", "salted hash",
			"sha-256", "sha256",
			"해시 함수", "해시값", "해시 값", "해시 알고리즘", "해시 테이블", "해싱",
		},
		ContextTerms: []string{
			"investment", "venture", "portfolio", "crypto", "blockchain", "web3",
			"투자", "벤처", "포트폴리오", "블록체인", "암호화폐", "가상자산", "웹3",
		},
		Categories: []Category{
			{Name: "투자", Keywords: []string{"투자", "펀딩", "시리즈", "시드", "투자유치", "vc", "벤처캐피털", "벤처투자", "포트폴리오", "funding", "series", "seed round"}},
			{Name: "블록체인", Keywords: []string{"블록체인", "웹3", "web3", "defi", "디파이", "nft", "스마트컨트랙트", "레이어2", "레이어1", "blockchain", "smart contract"}},
			{Name: "암호화폐", Keywords: []string{"비트코인", "이더리움", "암호화폐", "가상자산", "코인", "토큰", "거래소", "업비트", "빗썸", "bitcoin", "ethereum", "crypto"}},
			{Name: "인물", Keywords: []string{"김서준", "대표", "ceo", "설립자", "파트너", "공동창업자", "founder"}},
			{Name: "정책", Keywords: []string{"가상자산법", "규제", "금융위", "금융감독원", "특금법", "정책", "정부", "regulator", "policy"}},
			{Name: CatchAllCategory},
		},
		CatchAll: CatchAllCategory,
		NegativeTerms: []string{
			"소송", "고소", "피해", "사기", "논란", "문제", "비판", "실패", "손실",
			"하락", "폭락", "철수", "경고", "위기", "의혹", "수사", "기소", "횡령",
			"배임", "파산", "부도", "불법", "탈세", "처벌", "제재", "압수수색",
			"lawsuit", "fraud", "scam", "controversy", "criticism", "failure", "plunge",
			"bankruptcy", "embezzlement", "indictment", "illegal", "sanction",
		},
		PositiveTerms: []string{
			"성공", "성장", "상승", "급등", "호재", "협력", "파트너십", "계약",
			"확장", "진출", "수상", "선정", "인정", "혁신", "돌파", "달성",
			"흑자", "이익", "수익", "투자유치", "시리즈",
			"partnership", "growth", "award", "innovation", "milestone", "profit",
		},
		ResponseTerms: []string{
			"해명", "입장", "반박", "대응", "공식", "발표", "설명", "소송", "고소",
			"피해", "논란", "의혹", "비판", "항의", "시위", "고발", "신고",
			"statement", "official response", "rebuttal", "lawsuit", "controversy", "protest", "complaint",
		},
		HighRiskTerms: []string{
			"소송", "고소", "사기", "피해", "검찰", "수사", "횡령", "배임",
			"경찰", "구속", "체포", "기소", "압수수색", "불법", "범죄",
			"lawsuit", "fraud", "prosecutor", "investigation", "embezzlement",
			"arrest", "indictment", "raid", "illegal", "crime",
		},
		MediumRiskTerms: []string{
			"논란", "의혹", "비판", "우려", "하락", "손실", "규제", "제재",
			"경고", "위기", "실패", "철수", "폭락", "위반",
			"controversy", "allegation", "criticism", "concern", "decline", "loss", "regulation",
			"sanction", "warning", "crisis", "failure", "withdrawal", "plunge", "violation",
		},
	}
}

// WithSearchKeywords returns a copy of t using keywords as the general search terms.
func (t Tables) WithSearchKeywords(keywords []string) Tables {
	t.SearchKeywords = clone(keywords)
	return t
}

func (t Tables) catchAll() string {
	if t.CatchAll != "" {
		return t.CatchAll
	}
	return CatchAllCategory
}

func clone(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
