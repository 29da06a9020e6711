package postgres

type scoringConfigTableModel struct {
	Scope    string `db:"scope"`
	Division string `db:"division"`
	Key      string `db:"config_key"`
	Value    string `db:"config_value"`
}
