package seeders

// Демонстрационные данные для пустой базы.
var sampleBranches = []struct {
	Name        string
	Responsible string
}{
	{Name: "Matriz", Responsible: ""},
	{Name: "Filial Norte", Responsible: "supervisor"},
	{Name: "Filial Sul", Responsible: "supervisor"},
}

var sampleWorkers = []struct {
	Name     string
	Document string
}{
	{Name: "João Pereira", Document: "123.456.789-00"},
	{Name: "Maria Souza", Document: "987.654.321-00"},
	{Name: "Antônio Lima", Document: ""},
}
