package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lk16/reversi/internal/othello"
)

func main() {
	boardString := flag.String("board", othello.NewBoardStart().String(), "the board to show")
	sideString := flag.String("side", "", "show legal moves of this side, black or white")
	flag.Parse()

	board, err := othello.NewBoardFromString(*boardString)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	var moves []othello.Position
	if *sideString != "" {
		side, err := othello.ParseSide(*sideString)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		moves = board.LegalMoves(side)
	}

	for _, line := range board.ASCIIArtLines(moves) {
		fmt.Println(line)
	}

	score := board.Score()
	fmt.Printf("black: %d white: %d\n", score.Black, score.White)
}
