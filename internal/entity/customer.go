package entity

// Customer is the shop profile linked 1:1 to an account. It is created
// lazily on the first profile write; checkout requires it to exist.
type Customer struct {
	ID        int    `json:"id"`
	AccountID int    `json:"account_id"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

/*
Schema MySQL:
CREATE TABLE `customers` (
  `id` int(11) NOT NULL AUTO_INCREMENT,
  `account_id` int(11) NOT NULL,
  `full_name` varchar(100) NOT NULL,
  `phone` varchar(20) NOT NULL DEFAULT '',
  `address` varchar(255) NOT NULL DEFAULT '',
  PRIMARY KEY (`id`),
  UNIQUE KEY `account_idx` (`account_id`)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
*/
