package http_api

import "github.com/gin-gonic/gin"

// routes sets up the routes for the HTTP server.
func (s *HTTPServer) routes() {
	s.router.GET("/", s.root)
	s.router.GET("/health", s.health)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	nfts := s.router.Group("/api/nfts")
	nfts.GET("", s.getNFTs)
	nfts.GET("/collection/info", s.getCollectionInfo)
	nfts.GET("/collection/:address", s.getCollection)
	nfts.GET("/owner/:ownerAddress", s.getNFTsByOwner)
	nfts.GET("/:nftAddress", s.getNFT)

	wallet := s.router.Group("/api/wallet")
	wallet.GET("/balance/:address", s.getBalance)
	wallet.GET("/info/:address", s.getWalletInfo)

	transactions := s.router.Group("/api/transactions")
	transactions.POST("/purchase", s.purchase)
	transactions.GET("/history/:address", s.history)

	s.router.NoRoute(s.notFound)
}
