package local_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	client "sales-analysis/src/client/lib"
	local "sales-analysis/src/local/lib"
	mapper "sales-analysis/src/mapper/lib"
	sum "sales-analysis/src/sum/lib"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, lines ...string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func TestRunRendersMonthlyTotals(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "transactions_a.csv",
		"id,item,qty,price,date,store",
		"1,ProdA,10,5.0,15/04/21 10:00,X",
		"2,ProdB,2,1.5,04/20/21 12:30,X",
		"3,ProdC,foo,5.0,15/04/21 10:00,X",
	)
	writeFile(t, dir, "transactions_b.csv",
		"id,item,qty,price,date,store",
		"4,ProdA,1,100.0,11/02/22 09:00,X",
		"5,short,line",
	)

	conf := local.RunnerConfig{
		Client:  client.NewClientConfig(dir, "transactions", 2, true),
		Mapper:  mapper.MapperConfig{PadKeys: false, DayFirstFallback: true},
		Report:  sum.ReportOptions{TopK: 1},
		Workers: 3,
	}

	var out bytes.Buffer
	stats, err := local.Run(context.Background(), conf, &out)
	require.NoError(t, err)

	require.Equal(t, 5, stats.Lines)
	require.Equal(t, 3, stats.Emitted)
	require.Equal(t, 1, stats.Dropped[mapper.DropNumeric])
	require.Equal(t, 1, stats.Dropped[mapper.DropSchema])

	require.Equal(t,
		"Abril(04)/2021\t53.00\n"+
			"Noviembre(11)/2022\t100.00\n"+
			"\n"+
			"Top 1 periods by revenue\n"+
			"1. Noviembre(11)/2022\t100.00\n",
		out.String())
}

func TestRunWithoutFiles(t *testing.T) {
	conf := local.RunnerConfig{Client: client.NewClientConfig(t.TempDir(), "transactions", 10, false)}
	_, err := local.Run(context.Background(), conf, &bytes.Buffer{})
	require.Error(t, err)
}

func TestRunDropsNonFinitePrices(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "transactions.csv",
		"1,ProdA,10,5.0,04/15/21 10:00,X",
		"2,ProdB,1,NaN,04/15/21 10:00,X",
		"3,ProdC,2147483647,1e308,04/16/21 10:00,X",
	)

	conf := local.RunnerConfig{
		Client:  client.NewClientConfig(dir, "transactions", 10, false),
		Mapper:  mapper.MapperConfig{DayFirstFallback: true},
		Workers: 2,
	}

	var out bytes.Buffer
	stats, err := local.Run(context.Background(), conf, &out)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Emitted)
	require.Equal(t, 2, stats.Dropped[mapper.DropNumeric])
	require.Equal(t, "Abril(04)/2021\t50.00\n", out.String())
}
