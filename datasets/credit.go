// Package datasets provides the bundled credit-risk dataset and a YAML dataset reader.
package datasets

import (
	"github.com/ctreelab/arbor/core/table"
)

// CreditRiskTarget is the name of the label column of the credit-risk dataset.
const CreditRiskTarget = "Risco"

// LoadCreditRisk returns the 30 applicant credit-risk dataset: five categorical features,
// the numeric Idade (age), and the risk class (Alto, Moderado or Baixo) of each applicant.
func LoadCreditRisk() *Dataset {
	tbl, err := table.New(
		table.CategoricalColumn("Historia_Credito", []string{
			"Desconhecida", "Boa", "Desconhecida", "Ruim", "Ruim", "Desconhecida",
			"Desconhecida", "Boa", "Desconhecida", "Boa", "Boa", "Ruim",
			"Desconhecida", "Boa", "Ruim", "Boa", "Boa", "Ruim", "Boa", "Ruim",
			"Boa", "Desconhecida", "Boa", "Ruim", "Desconhecida", "Boa",
			"Boa", "Ruim", "Desconhecida", "Ruim",
		}),
		table.CategoricalColumn("Divida", []string{
			"Alta", "Alta", "Baixa", "Alta", "Alta", "Baixa", "Baixa", "Baixa", "Alta", "Baixa",
			"Baixa", "Baixa", "Alta", "Alta", "Baixa", "Alta", "Alta", "Alta", "Baixa", "Alta",
			"Baixa", "Baixa", "Alta", "Baixa", "Baixa", "Alta", "Baixa", "Baixa", "Alta", "Alta",
		}),
		table.CategoricalColumn("Garantia", []string{
			"Nenhuma", "Nenhuma", "Nenhuma", "Nenhuma", "Nenhuma", "Nenhuma",
			"Nenhuma", "Nenhuma", "Nenhuma", "Adequada", "Nenhuma", "Nenhuma",
			"Adequada", "Nenhuma", "Nenhuma", "Adequada", "Nenhuma", "Nenhuma",
			"Nenhuma", "Adequada", "Nenhuma", "Nenhuma", "Nenhuma", "Adequada",
			"Adequada", "Adequada", "Adequada", "Adequada", "Adequada", "Adequada",
		}),
		table.CategoricalColumn("Renda", []string{
			"$0 a $15k", "$0 a $15k", "$0 a $15k", "$0 a $15k", "$0 a $15k", "$0 a $15k",
			"$15 a $35k", "$15 a $35k", "$15 a $35k", "$0 a $15k", "$15 a $35k", "$0 a $15k",
			"$0 a $15k", "$15 a $35k", "$15 a $35k", "$15 a $35k", "Acima de $35k", "$15 a $35k",
			"Acima de $35k", "$15 a $35k", "Acima de $35k", "Acima de $35k", "Acima de $35k",
			"Acima de $35k", "Acima de $35k", "Acima de $35k", "Acima de $35k", "Acima de $35k",
			"Acima de $35k", "Acima de $35k",
		}),
		table.NumericColumn("Idade", []float64{
			19, 21, 22, 24, 25, 26, 28, 29, 30, 31, 32, 33, 34, 35, 36, 38, 39, 40, 41, 42,
			43, 45, 47, 48, 50, 52, 55, 58, 60, 62,
		}),
		table.CategoricalColumn("Tipo_Emprego", []string{
			"Temporário", "Temporário", "Temporário", "Temporário", "Temporário", "Temporário",
			"Autônomo", "Autônomo", "Autônomo", "Autônomo", "Autônomo", "Autônomo",
			"Autônomo", "Autônomo", "Estável", "Estável", "Estável", "Autônomo",
			"Estável", "Autônomo", "Estável", "Estável", "Estável", "Estável",
			"Estável", "Estável", "Estável", "Estável", "Estável", "Estável",
		}),
	)
	if err != nil {
		panic(err)
	}
	return &Dataset{
		Name:   "credit-risk",
		Target: CreditRiskTarget,
		Table:  tbl,
		Labels: []string{
			"Alto", "Alto", "Alto", "Alto", "Alto", "Alto", "Moderado", "Moderado", "Alto", "Moderado",
			"Baixo", "Alto", "Alto", "Moderado", "Moderado", "Moderado", "Baixo", "Alto", "Baixo", "Moderado",
			"Baixo", "Baixo", "Baixo", "Moderado", "Baixo", "Baixo", "Baixo", "Baixo", "Baixo", "Baixo",
		},
	}
}
