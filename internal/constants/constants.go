package constants

const (
	// Table is the only table generated queries may reference.
	Table = "drawing"

	OllamaDefaultHost = "localhost"
	OllamaDefaultPort = 11434

	DefaultListenAddr = ":5000"

	SQLSystemInstructions = "You are an agent designed to generate SQL queries.\n" +
		"You work with one and ONLY ONE TABLE NAMED ```" + Table + "```.\n" +
		"All the generated SQL queries must START WITH ```SELECT``` ONLY.\n" +
		"DO NOT make any DML statements with (INSERT, UPDATE, DELETE, DROP, ALTER, CREATE etc.).\n" +
		"Follow the format of the examples to generate only the appropriate SQL query for the user's ```question```.\n" +
		"DO NOT use ```*``` BUT use the column names in the table schema.\n" +
		"DO NOT include any other column names that are not in the table schema.\n" +
		"DO NOT include explanations or additional information.\n" +
		"DO NOT pretty print the query.\n" +
		"ALWAYS use alias names in the SQL query when using a function.\n" +
		"RETURN the SQL query in a single line without any carriage returns.\n" +
		"RETURN the SQL query with ```;``` at the end.\n" +
		"TRANSLATE the alias names in the SQL to the same language as the ```question```.\n" +
		"DO NOT use any other language than the ```question``` language.\n" +
		"IMPORTANT:\n" +
		"If the ```question``` doesn't seem related to the database, just RETURN ```Error```."

	SQLExamples = `Examples:
Question: How many drawing numbers are there?
SQL Query: SELECT COUNT(drawing_number) AS drawing_number_count FROM drawing;
Question: Count the total occurrences of '佐井鋼㈱' in material supplier.
SQL Query: SELECT COUNT(material_sup) AS total_occurrences FROM drawing WHERE material_sup = '佐井鋼㈱';
Question: Give me the details for the drawing number '<drawing_number>'.
SQL Query: SELECT drawing_number, name, material_sup, material_cost, selling_price, defect_details FROM drawing WHERE drawing_number = '<drawing_number>';
Question: Show all unique material suppliers.
SQL Query: SELECT DISTINCT material_sup FROM drawing;
Question: What is the total other cost?
SQL Query: SELECT SUM(other_cost) AS total_other_cost FROM drawing;
Question: What is the other cost of the drawing number '<drawing_number>'?
SQL Query: SELECT other_cost FROM drawing WHERE drawing_number = '<drawing_number>';

Question: 図面番号はいくつありますか？
SQL Query: SELECT COUNT(drawing_number) AS 図面番号の数 FROM drawing;
Question: '佐井鋼㈱'が材料サプライヤーに出現した総回数を数えてください。
SQL Query: SELECT COUNT(material_sup) AS 総出現回数 FROM drawing WHERE material_sup = '佐井鋼㈱';
Question: 図面番号「<drawing_number>」の詳細をすべて教えていただけますか？
SQL Query: SELECT drawing_number, name, material_sup, material_cost, selling_price, defect_details FROM drawing WHERE drawing_number = '<drawing_number>';
Question: すべてのユニークな材料サプライヤーを表示してください。
SQL Query: SELECT DISTINCT material_sup FROM drawing;
Question: その他の費用の合計はいくらですか？
SQL Query: SELECT SUM(other_cost) AS その他の費用の合計 FROM drawing;
Question: 図面番号「<drawing_number>」のその他の費用はいくらですか？
SQL Query: SELECT other_cost FROM drawing WHERE drawing_number = '<drawing_number>';

Question: 有多少个图纸编号？
SQL Query: SELECT COUNT(drawing_number) AS 图纸编号数量 FROM drawing;
Question: 统计'佐井鋼㈱'在材料供应商中的总出现次数。
SQL Query: SELECT COUNT(material_sup) AS 总出现次数 FROM drawing WHERE material_sup = '佐井鋼㈱';
Question: 请提供图纸编号'<drawing_number>'的详细信息。
SQL Query: SELECT drawing_number, name, material_sup, material_cost, selling_price, defect_details FROM drawing WHERE drawing_number = '<drawing_number>';
Question: 显示所有唯一的材料供应商。
SQL Query: SELECT DISTINCT material_sup FROM drawing;
Question: 其他成本的总和是多少？
SQL Query: SELECT SUM(other_cost) AS 其他成本总和 FROM drawing;
Question: 图纸编号 '<drawing_number>' 的其他成本是多少？
SQL Query: SELECT other_cost FROM drawing WHERE drawing_number = '<drawing_number>';

Question: Có bao nhiêu số bản vẽ?
SQL Query: SELECT COUNT(drawing_number) AS "số_lượng_bản_vẽ" FROM drawing;
Question: Đếm tổng số lần xuất hiện của '佐井鋼㈱' trong nhà cung cấp vật liệu.
SQL Query: SELECT COUNT(material_sup) AS "tổng_số_lần_xuất_hiện" FROM drawing WHERE material_sup = '佐井鋼㈱';
Question: Cho tôi biết chi tiết về số bản vẽ '<drawing_number>'.
SQL Query: SELECT drawing_number, name, material_sup, material_cost, selling_price, defect_details FROM drawing WHERE drawing_number = '<drawing_number>';
Question: Hiển thị tất cả các nhà cung cấp vật liệu duy nhất.
SQL Query: SELECT DISTINCT material_sup FROM drawing;
Question: Tổng chi phí khác là bao nhiêu?
SQL Query: SELECT SUM(other_cost) AS "tổng_chi_phí_khác" FROM drawing;
Question: Chi phí khác của bản vẽ số '<drawing_number>' là bao nhiêu?
SQL Query: SELECT other_cost FROM drawing WHERE drawing_number = '<drawing_number>';`

	// SQLQuestionTemplate is filled with the table schema and the question.
	SQLQuestionTemplate = `### Table Schema ###
{{.Context}}

### Question ###
{{.Question}}

### SQL Query ###
`
)
